package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/theonetwoone/CYBER-repinning/util"
)

func TestStringListContains(t *testing.T) {
	list := []string{"apple", "orange", "banana"}
	assert.True(t, util.StringListContains(list, "orange"))
	assert.False(t, util.StringListContains(list, "wedgewood"))
	assert.False(t, util.StringListContains(nil, "apple"))
}

func TestUniqueStrings(t *testing.T) {
	list := []string{"a", "b", "a", "c", "b", "a"}
	assert.Equal(t, []string{"a", "b", "c"}, util.UniqueStrings(list))
	assert.Empty(t, util.UniqueStrings(nil))
}

func TestShortCID(t *testing.T) {
	cid := "bafybeifcx4fof2cixdkh5qo7fq44m4myo5cl34ayqw4g7vjfqmur2kc76e"
	assert.Equal(t, "bafybeifcx4fof2c...", util.ShortCID(cid))
	assert.Equal(t, "QmShort", util.ShortCID("QmShort"))
}
