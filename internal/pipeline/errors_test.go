package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/megac/internal/decision"
	"github.com/roach88/megac/internal/derivation"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, ErrorCode(errors.New("boom")))
	assert.Equal(t, "AMBIGUOUS", ErrorCode(&derivation.Error{Code: derivation.ErrCodeAmbiguous}))
	assert.Equal(t, "NO_COMMON_ANCESTOR",
		ErrorCode(fmt.Errorf("wrapped: %w", &decision.Error{Code: decision.ErrCodeNoCommonAncestor})))
	assert.Equal(t, "X", ErrorCode(&PassError{Code: "X", Err: errors.New("inner")}))
}

func TestPassError(t *testing.T) {
	inner := &derivation.Error{Code: derivation.ErrCodeFailed, Message: "no luck"}
	pe := &PassError{Code: string(inner.Code), Object: "Door", Context: "Door.Push", Err: inner}

	assert.Equal(t, "FAILED: object Door, context Door.Push: FAILED: no luck", pe.Error())
	assert.ErrorIs(t, pe, inner)
	assert.True(t, IsPassError(fmt.Errorf("pass: %w", pe)))
	assert.False(t, IsPassError(inner))

	objectOnly := &PassError{Code: "INTERNAL", Object: "Door", Context: "Door", Err: errors.New("x")}
	assert.Equal(t, "INTERNAL: object Door: x", objectOnly.Error())
}

func TestPassErrors_Joined(t *testing.T) {
	a := &PassError{Code: "A", Object: "A", Err: errors.New("a")}
	b := &PassError{Code: "B", Object: "B", Err: errors.New("b")}

	got := PassErrors(errors.Join(a, errors.New("plain"), b))
	assert.Equal(t, []*PassError{a, b}, got)
	assert.Nil(t, PassErrors(nil))
}
