//go:build formationdebug

package formation

const debugInvariants = true
