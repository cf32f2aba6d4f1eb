package polyhedra

// disjointSet is a union-find structure over face-instance ids with
// path compression. Each class keeps its members in first-insertion
// order so that enumeration is deterministic.
type disjointSet struct {
	parent  map[ID]ID
	members map[ID][]ID
}

func newDisjointSet() *disjointSet {
	return &disjointSet{
		parent:  make(map[ID]ID),
		members: make(map[ID][]ID),
	}
}

// makeSet registers id as a singleton class if it is not yet present.
func (ds *disjointSet) makeSet(id ID) {
	if _, ok := ds.parent[id]; ok {
		return
	}
	ds.parent[id] = id
	ds.members[id] = []ID{id}
}

// find returns the class root of id, or false if id was never seen.
func (ds *disjointSet) find(id ID) (ID, bool) {
	p, ok := ds.parent[id]
	if !ok {
		return 0, false
	}
	if p == id {
		return id, true
	}
	root, _ := ds.find(p)
	ds.parent[id] = root
	return root, true
}

// union merges b's class into a's. The surviving member list is a's
// followed by b's, preserving first-insertion order.
func (ds *disjointSet) union(a, b ID) {
	ds.makeSet(a)
	ds.makeSet(b)
	ra, _ := ds.find(a)
	rb, _ := ds.find(b)
	if ra == rb {
		return
	}
	ds.parent[rb] = ra
	ds.members[ra] = append(ds.members[ra], ds.members[rb]...)
	delete(ds.members, rb)
}

// partition enumerates the classes in the order their first member
// appears in the given id sequence. Ids never registered are skipped.
func (ds *disjointSet) partition(order []ID) [][]ID {
	var out [][]ID
	emitted := make(map[ID]bool)
	for _, id := range order {
		root, ok := ds.find(id)
		if !ok || emitted[root] {
			continue
		}
		emitted[root] = true
		out = append(out, ds.members[root])
	}
	return out
}
