package bank

import "errors"

// Registry errors surfaced from lookups and insertion.
var (
	// ErrMissingSpokenLocale means no entry exists for the event at the
	// requested spoken locale.
	ErrMissingSpokenLocale = errors.New("bank: missing spoken locale for event")

	// ErrMissingWrittenLocale means no subtitle exists for the event at the
	// requested written locale.
	ErrMissingWrittenLocale = errors.New("bank: missing written locale for event")

	// ErrRequireGender means the event's key shape requires a known
	// gender, but none was supplied.
	ErrRequireGender = errors.New("bank: event requires a known gender")

	// ErrNotFound means no id is registered under the requested event name.
	ErrNotFound = errors.New("bank: event not found")
)

// Insertion/validation errors surfaced while building the registry from
// parsed manifests.
var (
	// ErrNonUniqueKey means the event name already exists in the host's
	// own identifier pool.
	ErrNonUniqueKey = errors.New("bank: name already exists in host identifier pool")

	// ErrConflictingKey means the candidate key collides with an
	// already-registered id under the conflict rules in [Conflicts].
	ErrConflictingKey = errors.New("bank: conflicting key")

	// ErrInvalidAudio means the referenced audio file could not be read or
	// decoded.
	ErrInvalidAudio = errors.New("bank: invalid audio")

	// ErrInvalidSubtitle means a subtitle's key shape didn't match its
	// paired voice entry's key shape.
	ErrInvalidSubtitle = errors.New("bank: invalid subtitle")

	// ErrRequiresFullGenderCoverage means a [KindBoth] voice entry is
	// missing one of the two required genders for some locale, or an ono
	// entry has only one of its two genders.
	ErrRequiresFullGenderCoverage = errors.New("bank: both-keyed entry requires full gender coverage")
)
