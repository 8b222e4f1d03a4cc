package leebox

import "github.com/palemoky/leebox/internal/apperrors"

var (
	// ErrNoSecretKey is returned by every authenticated operation on a room
	// that was never set up. It is detected before any request is sent.
	ErrNoSecretKey = apperrors.ErrNoSecretKey

	// ErrRoomNotCreated means /newroom answered without a room.
	ErrRoomNotCreated = apperrors.ErrRoomNotCreated

	// ErrEmptySnapshot means a sync answered without room data.
	ErrEmptySnapshot = apperrors.ErrEmptySnapshot

	// ErrRoomMismatch means a sync answered with a different room id.
	ErrRoomMismatch = apperrors.ErrRoomMismatch
)

// HTTPError is returned when the service answers with a non-2xx status.
type HTTPError = apperrors.HTTPError

// TransportError is returned when a request got no response at all.
type TransportError = apperrors.TransportError

// IsPrecondition reports whether err is a local precondition failure. Retrying
// is pointless until the room has been set up.
func IsPrecondition(err error) bool {
	return apperrors.IsPrecondition(err)
}

// IsTransport reports whether err came from the HTTP round trip.
func IsTransport(err error) bool {
	return apperrors.IsTransport(err)
}
