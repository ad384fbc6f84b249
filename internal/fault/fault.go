// Package fault defines the error taxonomy shared by the store, service,
// and HTTP layers. Store-layer failures are classified exactly once, by
// FromStore; downstream code switches on Kind and never re-inspects causes.
package fault

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind identifies one outcome of the taxonomy.
type Kind int

const (
	// Unavailable is the catch-all server fault. Its cause is logged but
	// never surfaced to clients.
	Unavailable Kind = iota
	// MissingCredential means no bearer token was presented.
	MissingCredential
	// InvalidCredential means the presented token resolved to no active user.
	InvalidCredential
	// Conflict means a uniqueness constraint was violated; Field names
	// the offending attribute.
	Conflict
	// NotFound means a requested entity does not exist.
	NotFound
	// UnknownRecipient means a message target username resolved to nobody.
	UnknownRecipient
	// SelfMessage means a user tried to message themselves.
	SelfMessage
	// SelfConversation means a user asked for a conversation with themselves.
	SelfConversation
	// Invalid means a request value failed shape validation, such as an
	// empty required field.
	Invalid
)

// Error carries one taxonomy kind plus a field-addressable client message.
// For client faults, Field and Msg form the per-field error map entry; for
// Unavailable the wrapped cause stays internal.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.cause }

// IsClientFault reports whether the error belongs to the recoverable,
// field-addressable tier.
func (e *Error) IsClientFault() bool {
	return e.Kind != Unavailable
}

// KindOf extracts the taxonomy kind from err. Anything that is not a
// *fault.Error counts as Unavailable.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unavailable
}

// As unwraps err into a *fault.Error, classifying unknown errors as
// Unavailable so callers always get a usable value.
func As(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return Unavailablef(err)
}

// MissingCredentialf reports an absent Authorization credential.
func MissingCredentialf() *Error {
	return &Error{Kind: MissingCredential, Field: "authorization", Msg: "missing API key"}
}

// InvalidCredentialf reports a token that resolved to no active user.
// The message is identical for unknown and inactive tokens to prevent
// account enumeration.
func InvalidCredentialf() *Error {
	return &Error{Kind: InvalidCredential, Field: "authorization", Msg: "invalid API key"}
}

// Conflictf reports a uniqueness violation on the named field.
func Conflictf(field string) *Error {
	return &Error{Kind: Conflict, Field: field, Msg: fmt.Sprintf("this %s already exists", field)}
}

// NotFoundf reports a missing entity, addressed by the lookup field.
func NotFoundf(field, key string) *Error {
	return &Error{Kind: NotFound, Field: field, Msg: fmt.Sprintf("no user with %s %q", field, key)}
}

// UnknownRecipientf reports a message or conversation peer that does not exist.
func UnknownRecipientf(username string) *Error {
	return &Error{Kind: UnknownRecipient, Field: "dst", Msg: fmt.Sprintf("unknown user %q", username)}
}

// SelfMessagef reports an attempt to send a message to oneself.
func SelfMessagef() *Error {
	return &Error{Kind: SelfMessage, Field: "dst", Msg: "cannot send a message to yourself"}
}

// SelfConversationf reports a conversation request against oneself.
func SelfConversationf() *Error {
	return &Error{Kind: SelfConversation, Field: "peer", Msg: "cannot read a conversation with yourself"}
}

// Unavailablef wraps an opaque server fault.
func Unavailablef(cause error) *Error {
	return &Error{Kind: Unavailable, Msg: "store operation failed", cause: cause}
}

// Invalidf reports a request-shape fault on the named field, such as an
// empty required value.
func Invalidf(field, msg string) *Error {
	return &Error{Kind: Invalid, Field: field, Msg: msg}
}

// PostgreSQL error codes recognized by the normalizer.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// constraintFields maps schema constraint names to the client-facing
// field they correspond to.
var constraintFields = map[string]string{
	"users_username_key": "username",
	"users_email_key":    "email",
	"api_keys_key_key":   "api_key",
}

// FromStore classifies a raw store error into the taxonomy. Unique
// violations become Conflict on the constrained field; a broken
// recipient foreign key becomes UnknownRecipient (the peer was deleted
// between resolution and insert); everything else is Unavailable.
// Errors already classified pass through untouched.
func FromStore(err error) error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if field, ok := constraintFields[pgErr.ConstraintName]; ok {
				return Conflictf(field)
			}
			return Conflictf(pgErr.ConstraintName)
		case pgForeignKeyViolation:
			if pgErr.ConstraintName == "messages_dst_id_fkey" {
				return UnknownRecipientf("")
			}
		}
	}

	return Unavailablef(err)
}
