// Package errs defines the sentinel error values used across the msb module.
//
// All errors are created with errors.New and wrapped at call sites with
// fmt.Errorf("%w: ...") to attach context, so callers can match them with
// errors.Is regardless of the added detail.
package errs

import "errors"

var (
	// ErrInvalidMagic indicates a file or section magic value did not match.
	ErrInvalidMagic = errors.New("invalid magic value")

	// ErrUnexpectedValue indicates an asserted literal (reserved word, padding,
	// header flag) did not hold the required value.
	ErrUnexpectedValue = errors.New("unexpected value")

	// ErrOffsetOutOfRange indicates a seek or read past the end of the buffer,
	// or an offset field pointing outside the file.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrParamTag indicates a section's embedded tag string did not match the
	// tag expected for its position in the file.
	ErrParamTag = errors.New("param tag mismatch")

	// ErrTrailingOffset indicates the final section's next-section offset was
	// not the required literal zero.
	ErrTrailingOffset = errors.New("final section has non-zero next offset")

	// ErrUnknownSubtype indicates an entry declared a subtype this codec does
	// not know how to decode.
	ErrUnknownSubtype = errors.New("unknown entry subtype")

	// ErrMissingReference indicates an entry's name-valued field did not
	// resolve to any known entry, even after the case-insensitive fallback.
	ErrMissingReference = errors.New("missing reference")

	// ErrIndexOverflow indicates a resolved index does not fit the field's
	// serialized integer width.
	ErrIndexOverflow = errors.New("index exceeds field width")

	// ErrInvalidEntryName indicates an entry name that cannot be serialized,
	// e.g. one containing a NUL character.
	ErrInvalidEntryName = errors.New("invalid entry name")

	// ErrReservation indicates a misuse of the writer's deferred-offset table:
	// a duplicate or unknown key, or a width mismatch on fill.
	ErrReservation = errors.New("invalid reservation")

	// ErrUnfilledReservation indicates the writer was asked for its bytes
	// while at least one reserved slot had not been filled.
	ErrUnfilledReservation = errors.New("unfilled reservation")

	// ErrUnsupportedCompression indicates a DCX codec tag this build cannot
	// handle.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrInvalidContainer indicates a malformed DCX wrapper (bad sizes,
	// truncated payload).
	ErrInvalidContainer = errors.New("invalid container")
)
