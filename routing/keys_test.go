package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kevwan/radixcluster/command"
	"github.com/kevwan/radixcluster/routing"
)

type fakeCommand struct {
	id   string
	args [][]byte
	hash uint32
	ok   bool
}

func cmd(id string, args ...string) *fakeCommand {
	c := &fakeCommand{id: id}
	for _, a := range args {
		c.args = append(c.args, []byte(a))
	}
	return c
}

func (c *fakeCommand) ID() string           { return c.id }
func (c *fakeCommand) Args() [][]byte       { return c.args }
func (c *fakeCommand) Hash() (uint32, bool) { return c.hash, c.ok }
func (c *fakeCommand) SetHash(h uint32)     { c.hash, c.ok = h, true }

func identityHash(b []byte) uint32 {
	var h uint32
	for _, c := range b {
		h = h*31 + uint32(c)
	}
	return h
}

func TestHashTagExtractsBracedRegion(t *testing.T) {
	assert.Equal(t, []byte("bar"), routing.HashTag([]byte("foo{bar}baz")))
}

func TestHashTagMatchesSpecGoldenVector(t *testing.T) {
	assert.Equal(t, []byte("foo"), routing.HashTag([]byte("{foo}bar")))
}

func TestHashTagColocatesKeysSharingATag(t *testing.T) {
	a := routing.HashTag([]byte("{user1000}.following"))
	b := routing.HashTag([]byte("{user1000}.followers"))
	assert.Equal(t, a, b)
}

func TestHashTagIgnoresEmptyTag(t *testing.T) {
	assert.Equal(t, []byte("{}foo"), routing.HashTag([]byte("{}foo")))
}

func TestHashTagNoTagReturnsWholeKey(t *testing.T) {
	assert.Equal(t, []byte("plainkey"), routing.HashTag([]byte("plainkey")))
}

func TestHashTagUnclosedBraceReturnsWholeKey(t *testing.T) {
	assert.Equal(t, []byte("foo{bar"), routing.HashTag([]byte("foo{bar")))
}

func TestServerExtractorSingleKey(t *testing.T) {
	e := routing.ServerExtractor{Table: command.DefaultTable}
	h, ok := e.GetHash(identityHash, cmd("GET", "somekey"))
	assert.True(t, ok)
	assert.Equal(t, identityHash([]byte("somekey")), h)
}

func TestServerExtractorMultiKeySameTagRoutes(t *testing.T) {
	e := routing.ServerExtractor{Table: command.DefaultTable}
	_, ok := e.GetHash(identityHash, cmd("MGET", "a{tag}", "b{tag}"))
	assert.True(t, ok)
}

func TestServerExtractorMultiKeyDifferentSlotsRefuses(t *testing.T) {
	e := routing.ServerExtractor{Table: command.DefaultTable}
	_, ok := e.GetHash(identityHash, cmd("MGET", "foo", "bar"))
	assert.False(t, ok)
}

func TestServerExtractorUnroutableCommandRefuses(t *testing.T) {
	e := routing.ServerExtractor{Table: command.DefaultTable}
	_, ok := e.GetHash(identityHash, cmd("PING"))
	assert.False(t, ok)
}

func TestServerExtractorEvalLikeUsesDeclaredKeyCount(t *testing.T) {
	e := routing.ServerExtractor{Table: command.DefaultTable}
	_, ok := e.GetHash(identityHash, cmd("EVAL", "return 1", "1", "onlykey"))
	assert.True(t, ok)
}

func TestServerExtractorEvalLikeZeroKeysRefuses(t *testing.T) {
	e := routing.ServerExtractor{Table: command.DefaultTable}
	_, ok := e.GetHash(identityHash, cmd("EVAL", "return 1", "0"))
	assert.False(t, ok)
}

func TestClientExtractorMultiKeySameNodeRoutes(t *testing.T) {
	e := routing.ClientExtractor{Table: command.DefaultTable}
	sameNode := func(h uint32) any { return "only-node" }
	_, ok := e.GetHash(identityHash, sameNode, cmd("MGET", "foo", "bar"))
	assert.True(t, ok, "a single-node ring always agrees regardless of hash")
}

func TestClientExtractorMultiKeyDifferentNodesRefuses(t *testing.T) {
	e := routing.ClientExtractor{Table: command.DefaultTable}
	alternating := func(h uint32) any {
		if h%2 == 0 {
			return "node-even"
		}
		return "node-odd"
	}
	_, ok := e.GetHash(identityHash, alternating, cmd("MGET", "a", "bb"))
	assert.False(t, ok)
}
