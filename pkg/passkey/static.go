package passkey

import (
	"bytes"
	"context"
	"fmt"
)

// StaticAuthenticator replays a recorded assertion instead of running a
// ceremony. It serves assertions captured by a browser and tests.
type StaticAuthenticator struct {
	Assertion *Assertion
}

// GetAssertion returns the recorded assertion if it was made with the
// requested credential.
func (sa *StaticAuthenticator) GetAssertion(
	ctx context.Context,
	request *AssertionRequest,
) (*Assertion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sa.Assertion == nil {
		return nil, fmt.Errorf("no assertion recorded")
	}

	if len(sa.Assertion.CredentialID) > 0 &&
		!bytes.Equal(sa.Assertion.CredentialID, request.CredentialID) {
		return nil, fmt.Errorf(
			"no assertion recorded for credential [%x]",
			request.CredentialID,
		)
	}

	assertion := *sa.Assertion
	return &assertion, nil
}
