package tokenmetadata

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
)

// ProgramKey is the address of the token metadata program.
//
// Current key: metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s
var ProgramKey = ed25519.PublicKey{11, 112, 101, 177, 227, 209, 124, 69, 56, 157, 82, 127, 107, 4, 195, 205, 88, 184, 108, 115, 26, 160, 253, 181, 73, 182, 209, 188, 3, 248, 41, 70}

var (
	ErrInvalidAccountData = errors.New("unexpected metadata account data")
	ErrTooManyCreators    = errors.New("too many creators")
)

// MaxCreators is the maximum number of creators a metadata account may list.
const MaxCreators = 5
