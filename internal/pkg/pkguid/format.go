package pkguid

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/sayan2306/distributed-idgen/internal/idgen"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
)

var (
	// ErrUnknownFormat is returned by Format for an unsupported encoding name.
	ErrUnknownFormat = errors.New("unknown id format")
	// ErrNegativeID is returned for base32 and base58, which cannot encode an
	// id whose top bit is set.
	ErrNegativeID = errors.New("id does not fit a signed 64-bit integer")
)

// Supported text encodings.
const (
	FormatDecimal = "decimal"
	FormatHex     = "hex"
	FormatBase2   = "base2"
	FormatBase32  = "base32"
	FormatBase36  = "base36"
	FormatBase58  = "base58"
	FormatBase64  = "base64"
)

// ValidateFormat reports whether format is supported.
func ValidateFormat(format string) error {
	switch format {
	case FormatDecimal, FormatHex, FormatBase2, FormatBase32, FormatBase36, FormatBase58, FormatBase64:
		return nil
	}
	return pkgerror.NewInvalidFormat(fmt.Errorf("%w: %q", ErrUnknownFormat, format))
}

// Format renders id in the named encoding. The decimal and hex forms treat
// the id as unsigned; the others are bwmarrin/snowflake encodings of its
// signed value.
func Format(id idgen.ID, format string) (string, error) {
	sf := snowflake.ID(id.Int64())

	switch format {
	case FormatDecimal:
		return id.String(), nil
	case FormatHex:
		return strconv.FormatUint(uint64(id), 16), nil
	case FormatBase2:
		return sf.Base2(), nil
	case FormatBase32:
		if sf < 0 {
			return "", negative(id, format)
		}
		return sf.Base32(), nil
	case FormatBase36:
		return sf.Base36(), nil
	case FormatBase58:
		if sf < 0 {
			return "", negative(id, format)
		}
		return sf.Base58(), nil
	case FormatBase64:
		return sf.Base64(), nil
	}

	return "", ValidateFormat(format)
}

func negative(id idgen.ID, format string) error {
	return pkgerror.NewOutOfRange(fmt.Errorf("%w: %s cannot encode %d", ErrNegativeID, format, uint64(id)))
}
