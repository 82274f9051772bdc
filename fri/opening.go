package fri

import "math/bits"

// MerkleOpeningSize is the size of one opening of a Merkle tree whose
// numleafs leaves each hold a tuple of tuplesize field elements of fsize
// bits: the opened tuple, its sibling tuple, and the remaining co-path.
func MerkleOpeningSize(numleafs, tuplesize, fsize, hashBits int) int {
	tuple := tuplesize * fsize
	sibling := tuplesize * fsize
	copath := (ceilLog2(numleafs) - 1) * hashBits
	return tuple + sibling + copath
}

// AuthSize is the size of everything needed to open one position of the
// FRI base layer over a domain of domainsize elements.
//
// With batching, the queried symbol of the interleaved code is one leaf of
// the batch tree. Each folding round then opens one fanin-tuple from the
// oracle of that round, stored as a single leaf. The final layer of at most
// basedimension coefficients is sent in the clear with the commitment and
// has no tree.
func AuthSize(domainsize int, rate float64, fsize, batchsize, fanin, basedimension, hashBits int) int {
	size := 0
	if batchsize > 1 {
		size += MerkleOpeningSize(domainsize, batchsize, fsize, hashBits)
	}
	for ncurr := domainsize; float64(ncurr)*rate > float64(basedimension); {
		numleafs := ncurr / fanin
		size += MerkleOpeningSize(numleafs, fanin, fsize, hashBits)
		ncurr = numleafs
	}
	return size
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int) int {
	return bits.Len(uint(n - 1))
}
