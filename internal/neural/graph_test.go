package neural

import (
	"errors"
	"testing"
)

func hiddenAt(x, y int) *Neuron {
	n := &Neuron{Type: TonicSpiking | RoleHidden | SignMask, X: x, Y: y}
	n.InitMembrane()
	return n
}

func outPorts(n *Neuron) []*Port {
	var ports []*Port
	for p := n.PortsOut; p != nil; p = p.Next {
		ports = append(ports, p)
	}
	return ports
}

func inPorts(n *Neuron) []*Port {
	var ports []*Port
	for p := n.PortsIn; p != nil; p = p.Next {
		ports = append(ports, p)
	}
	return ports
}

func TestAddSynapsePrepends(t *testing.T) {
	a, b := hiddenAt(0, 0), hiddenAt(1, 0)
	first := AddSynapse(a, b, 6, 1)
	second := AddSynapse(a, b, 3, 2)
	if a.PortsOut.Synapse != second || a.PortsOut.Next.Synapse != first {
		t.Fatal("expected newest outgoing port at the head")
	}
	if b.PortsIn.Synapse != second || b.PortsIn.Next.Synapse != first {
		t.Fatal("expected newest incoming port at the head")
	}
	if first.Pre != a || first.Post != b {
		t.Fatal("expected synapse endpoints to match the call")
	}
}

func TestMoveOutgoingSynapses(t *testing.T) {
	src, dst, sink := hiddenAt(0, 0), hiddenAt(1, 0), hiddenAt(2, 0)
	AddSynapse(src, sink, 6, 1)
	AddSynapse(src, sink, 4, 1)
	MoveOutgoingSynapses(src, dst)
	if src.PortsOut != nil {
		t.Fatal("expected source outgoing list emptied")
	}
	moved := outPorts(dst)
	if len(moved) != 2 {
		t.Fatalf("expected 2 transplanted ports, got %d", len(moved))
	}
	for _, p := range moved {
		if p.Synapse.Pre != dst {
			t.Fatal("expected transplanted synapse presynaptic endpoint rewritten")
		}
	}
	if len(inPorts(sink)) != 2 {
		t.Fatal("expected sink incoming ports untouched")
	}
}

func TestCopyPortsCreatesParallelSynapses(t *testing.T) {
	src, dst := hiddenAt(0, 0), hiddenAt(1, 0)
	up, down := hiddenAt(2, 0), hiddenAt(3, 0)
	AddSynapse(up, src, 5, 2)
	AddSynapse(src, down, -3, 4)

	CopyPortsIn(src, dst)
	CopyPortsOut(src, dst)

	in := inPorts(dst)
	if len(in) != 1 || in[0].Synapse.Pre != up || in[0].Synapse.Weight != 5 || in[0].Synapse.Delay != 2 {
		t.Fatalf("unexpected copied incoming connectivity: %+v", in)
	}
	out := outPorts(dst)
	if len(out) != 1 || out[0].Synapse.Post != down || out[0].Synapse.Weight != -3 || out[0].Synapse.Delay != 4 {
		t.Fatalf("unexpected copied outgoing connectivity: %+v", out)
	}
	if in[0].Synapse == src.PortsIn.Synapse {
		t.Fatal("expected a parallel synapse, not a shared one")
	}
	if len(inPorts(up)) != 0 || len(outPorts(up)) != 2 {
		t.Fatal("expected the upstream partner to gain one outgoing port")
	}
}

func TestCopyPortsRefusesNonEmptyTarget(t *testing.T) {
	src, dst, other := hiddenAt(0, 0), hiddenAt(1, 0), hiddenAt(2, 0)
	AddSynapse(other, src, 6, 1)
	AddSynapse(other, dst, 6, 1)
	CopyPortsIn(src, dst)
	if len(inPorts(dst)) != 1 {
		t.Fatal("expected copy onto a non-empty target to be refused")
	}
}

func TestDuplicate(t *testing.T) {
	src := hiddenAt(0, 0)
	up, down := hiddenAt(1, 0), hiddenAt(2, 0)
	AddSynapse(up, src, 5, 1)
	AddSynapse(src, down, 7, 2)
	src.V = 12.5

	dup := Duplicate(src)
	if dup.Type != src.Type {
		t.Fatal("expected duplicated type byte")
	}
	if dup.V == src.V {
		t.Fatal("expected a freshly initialized membrane, not a copied one")
	}
	if dup.History != 0 {
		t.Fatal("expected an empty spike history")
	}
	if len(inPorts(dup)) != 1 || len(outPorts(dup)) != 1 {
		t.Fatalf("expected parallel connectivity, got %d in / %d out", len(inPorts(dup)), len(outPorts(dup)))
	}
	if len(outPorts(up)) != 2 || len(inPorts(down)) != 2 {
		t.Fatal("expected partners to carry ports for the parallel synapses")
	}
}

func TestOppositeMatchesSynapseIdentity(t *testing.T) {
	a, b := hiddenAt(0, 0), hiddenAt(1, 0)
	sFirst := AddSynapse(a, b, 1, 1)
	sSecond := AddSynapse(a, b, 2, 1)

	// Head of a's out list carries the second synapse; its opposite must
	// resolve to the in-port carrying the same synapse, not the first
	// matching endpoint.
	opp := Opposite(a.PortsOut, SideOut)
	if opp == nil || opp.Synapse != sSecond {
		t.Fatal("expected the opposite port of the second parallel synapse")
	}
	opp = Opposite(b.PortsIn.Next, SideIn)
	if opp == nil || opp.Synapse != sFirst {
		t.Fatal("expected the opposite port of the first parallel synapse")
	}
}

func TestRemoveSynapseDetachesBothSidesAndAdvancesCursors(t *testing.T) {
	a, b := hiddenAt(0, 0), hiddenAt(1, 0)
	AddSynapse(a, b, 1, 1)
	doomed := AddSynapse(a, b, 2, 1)
	AddSynapse(a, b, 3, 1)

	// Cursor on both sides at the doomed synapse's ports.
	a.Current = a.PortsOut.Next
	b.Current = b.PortsIn.Next
	if a.Current.Synapse != doomed {
		t.Fatal("fixture wiring broken")
	}

	if err := RemoveSynapse(a, a.Current); err != nil {
		t.Fatalf("remove synapse: %v", err)
	}
	if len(outPorts(a)) != 2 || len(inPorts(b)) != 2 {
		t.Fatal("expected one port removed from each side")
	}
	if a.Current == nil || a.Current.Synapse == doomed {
		t.Fatal("expected the owner cursor to advance past the removed port")
	}
	if b.Current == nil || b.Current.Synapse == doomed {
		t.Fatal("expected the far cursor to advance past the removed port")
	}
	net := &Network{Head: a}
	net.InsertAfter(a, b)
	if err := net.Validate(); err != nil {
		t.Fatalf("validate after removal: %v", err)
	}
}

func TestRemoveSynapseReportsMissingOpposite(t *testing.T) {
	a, b := hiddenAt(0, 0), hiddenAt(1, 0)
	AddSynapse(a, b, 1, 1)
	b.PortsIn = nil
	err := RemoveSynapse(a, a.PortsOut)
	if !errors.Is(err, ErrNoOpposite) {
		t.Fatalf("expected ErrNoOpposite, got %v", err)
	}
	if a.PortsOut != nil {
		t.Fatal("expected the near side detached even on a corrupted far side")
	}
}

func TestMovePortRewritesOneEndpoint(t *testing.T) {
	a, b, c := hiddenAt(0, 0), hiddenAt(1, 0), hiddenAt(2, 0)
	s := AddSynapse(a, b, 6, 1)
	port := a.PortsOut

	follower, ok := MovePort(a, port, c)
	if !ok {
		t.Fatal("expected the move to succeed")
	}
	if follower != nil {
		t.Fatal("expected no follower for a single-port list")
	}
	if a.PortsOut != nil {
		t.Fatal("expected the port detached from the old owner")
	}
	if c.PortsOut != port {
		t.Fatal("expected the port on the target's outgoing list")
	}
	if s.Pre != c || s.Post != b {
		t.Fatalf("expected only the moved endpoint rewritten, got pre=[%d,%d] post=[%d,%d]", s.Pre.X, s.Pre.Y, s.Post.X, s.Post.Y)
	}
}

func TestMovePortRefusesSelfReference(t *testing.T) {
	a, b := hiddenAt(0, 0), hiddenAt(1, 0)
	s := AddSynapse(a, b, 6, 1)
	if _, ok := MovePort(a, a.PortsOut, b); ok {
		t.Fatal("expected refusal when the move would self-loop the synapse")
	}
	if s.Pre != a || a.PortsOut == nil {
		t.Fatal("expected no mutation on refusal")
	}
}

func TestRemoveNeuronMiddleOfList(t *testing.T) {
	a, b, c := hiddenAt(0, 0), hiddenAt(1, 0), hiddenAt(2, 0)
	net := &Network{Head: a}
	net.InsertAfter(a, b)
	net.InsertAfter(b, c)
	AddSynapse(a, b, 6, 1)
	AddSynapse(b, c, 6, 1)
	AddSynapse(c, a, 6, 1)

	if err := net.RemoveNeuron(b); err != nil {
		t.Fatalf("remove neuron: %v", err)
	}
	if net.Count() != 2 {
		t.Fatalf("expected 2 neurons left, got %d", net.Count())
	}
	if len(outPorts(a)) != 0 || len(inPorts(c)) != 0 {
		t.Fatal("expected all synapses incident to the removed neuron severed")
	}
	if len(outPorts(c)) != 1 || len(inPorts(a)) != 1 {
		t.Fatal("expected the unrelated synapse kept")
	}
	if err := net.Validate(); err != nil {
		t.Fatalf("validate after removal: %v", err)
	}
}

func TestRemoveNeuronWithSelfLoop(t *testing.T) {
	a, b := hiddenAt(0, 0), hiddenAt(1, 0)
	net := &Network{Head: a}
	net.InsertAfter(a, b)
	AddSynapse(b, b, 6, 1)
	AddSynapse(a, b, 6, 1)

	if err := net.RemoveNeuron(b); err != nil {
		t.Fatalf("remove neuron with self-loop: %v", err)
	}
	if net.Count() != 1 || net.Head != a {
		t.Fatal("expected only the first neuron left")
	}
	if len(outPorts(a)) != 0 {
		t.Fatal("expected the incident synapse severed")
	}
	if err := net.Validate(); err != nil {
		t.Fatalf("validate after removal: %v", err)
	}
}

func TestRemoveNeuronHead(t *testing.T) {
	a, b := hiddenAt(0, 0), hiddenAt(1, 0)
	net := &Network{Head: a}
	net.InsertAfter(a, b)
	if err := net.RemoveNeuron(a); err != nil {
		t.Fatalf("remove head neuron: %v", err)
	}
	if net.Head != b || net.Count() != 1 {
		t.Fatal("expected the list head to advance")
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	a, b := hiddenAt(0, 0), hiddenAt(1, 0)
	net := &Network{Head: a}
	net.InsertAfter(a, b)
	b.Next = b
	if !errors.Is(net.Validate(), ErrListCycle) {
		t.Fatal("expected list cycle detection")
	}
	b.Next = nil

	AddSynapse(a, b, 6, 1)
	b.PortsIn = nil
	if !errors.Is(net.Validate(), ErrNoOpposite) {
		t.Fatal("expected missing opposite detection")
	}

	a.PortsOut.Synapse = nil
	if !errors.Is(net.Validate(), ErrPortWithoutSynapse) {
		t.Fatal("expected port-without-synapse detection")
	}
}
