package huffman

import (
	"container/heap"
	"encoding/binary"

	"github.com/soramame72/sor2/internal/sorerrors"
)

// node is a Huffman tree node. Leaves carry a symbol; internal nodes carry
// two children. rank is the deterministic tie-break used when two nodes
// have equal frequency: ascending symbol value for leaves, then ascending
// creation order for merged internal nodes.
type node struct {
	leaf         bool
	symbol       byte
	freq         uint64
	rank         uint64
	left, right  *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].rank < h[j].rank
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// buildTree constructs a Huffman tree over data by repeatedly merging the
// two lowest-frequency nodes. Returns nil for empty input.
func buildTree(data []byte) *node {
	var freq [256]uint64
	for _, b := range data {
		freq[b]++
	}

	var leaves nodeHeap
	for s := 0; s < 256; s++ {
		if freq[s] > 0 {
			leaves = append(leaves, &node{leaf: true, symbol: byte(s), freq: freq[s], rank: uint64(s)})
		}
	}
	if len(leaves) == 0 {
		return nil
	}
	if len(leaves) == 1 {
		return leaves[0]
	}

	heap.Init(&leaves)
	seq := uint64(256)
	for leaves.Len() > 1 {
		a := heap.Pop(&leaves).(*node)
		b := heap.Pop(&leaves).(*node)
		merged := &node{freq: a.freq + b.freq, rank: seq, left: a, right: b}
		seq++
		heap.Push(&leaves, merged)
	}
	return heap.Pop(&leaves).(*node)
}

// code is a symbol's bit pattern: the low `length` bits of value, written
// most-significant-bit first.
type code struct {
	value  uint32
	length uint
}

// buildCodes derives the left=0/right=1 code for every leaf. A
// single-leaf tree encodes its symbol as the one-bit code "0", per spec.
func buildCodes(root *node) map[byte]code {
	codes := make(map[byte]code)
	if root == nil {
		return codes
	}
	if root.leaf {
		codes[root.symbol] = code{value: 0, length: 1}
		return codes
	}

	type frame struct {
		n     *node
		value uint32
		depth uint
	}
	stack := []frame{{root, 0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.leaf {
			codes[f.n.symbol] = code{value: f.value, length: f.depth}
			continue
		}
		stack = append(stack,
			frame{f.n.right, f.value<<1 | 1, f.depth + 1},
			frame{f.n.left, f.value << 1, f.depth + 1},
		)
	}
	return codes
}

// serializeTree encodes the tree using the explicit-stack tagged scheme of
// spec.md §3: internal nodes as tag 0, leaves as tag 1 followed by the
// symbol (one byte for 0..254, or the sentinel 255 plus a little-endian
// uint16 for 255 itself).
func serializeTree(root *node) []byte {
	if root == nil {
		return nil
	}
	var out []byte
	stack := []*node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.leaf {
			out = append(out, 1)
			if n.symbol <= 254 {
				out = append(out, n.symbol)
			} else {
				out = append(out, 255)
				var b [2]byte
				binary.LittleEndian.PutUint16(b[:], uint16(n.symbol))
				out = append(out, b[:]...)
			}
			continue
		}
		out = append(out, 0)
		// Push right before left so left is popped (and thus appears
		// immediately after its parent's tag) first.
		stack = append(stack, n.right, n.left)
	}
	return out
}

// deserializeTree reverses serializeTree, reconstructing the tree with an
// explicit stack of internal nodes awaiting their children rather than
// recursion, so a corrupt or adversarial blob cannot exhaust the Go stack.
// Malformed input is surfaced with sorerrors.Panic and converted back to
// an ordinary error by the deferred sorerrors.Recover, so the byte-reading
// and tree-attaching helpers below don't need to thread an error return
// through every call.
func deserializeTree(data []byte) (root *node, err error) {
	defer sorerrors.Recover(&err)

	if len(data) == 0 {
		sorerrors.Panic(sorerrors.Truncated, "huffman: empty tree blob")
	}
	pos := 0
	readByte := func() byte {
		if pos >= len(data) {
			sorerrors.Panic(sorerrors.Truncated, "huffman: tree blob truncated")
		}
		b := data[pos]
		pos++
		return b
	}

	type pending struct {
		n       *node
		hasLeft bool
	}
	var stack []*pending

	attach := func(n *node) {
		for {
			if len(stack) == 0 {
				root = n
				return
			}
			top := stack[len(stack)-1]
			if !top.hasLeft {
				top.n.left = n
				top.hasLeft = true
				return
			}
			top.n.right = n
			stack = stack[:len(stack)-1]
			n = top.n // this internal node is now complete; try its parent
		}
	}

	for root == nil {
		tag := readByte()
		if tag == 1 {
			sym := readByte()
			symVal := uint16(sym)
			if sym == 255 {
				if pos+2 > len(data) {
					sorerrors.Panic(sorerrors.Truncated, "huffman: tree blob truncated")
				}
				symVal = binary.LittleEndian.Uint16(data[pos:])
				pos += 2
			}
			attach(&node{leaf: true, symbol: byte(symVal)})
			continue
		}
		if tag != 0 {
			sorerrors.Panic(sorerrors.InvalidFraming, "huffman: invalid tree tag %d", tag)
		}
		n := &node{}
		stack = append(stack, &pending{n: n})
	}
	if len(stack) != 0 {
		sorerrors.Panic(sorerrors.InvalidFraming, "huffman: tree blob has unterminated internal nodes")
	}
	return root, nil
}
