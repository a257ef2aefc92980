package curator

import "errors"

var (
	// ErrInsufficientSeedData: the seed collection is too small to profile. Terminal, no retry.
	ErrInsufficientSeedData = errors.New("insufficient seed data")

	// ErrNoCandidatesFound: retrieval came back empty. Scored as zero sufficiency.
	ErrNoCandidatesFound = errors.New("no candidates found")

	// ErrPolicyFailure: the policy failed or proposed an unregistered action.
	ErrPolicyFailure = errors.New("policy failure")

	ErrLoopDetected           = errors.New("loop detected")
	ErrIterationLimitExceeded = errors.New("iteration limit exceeded")

	// ErrMalformedResumeInput: resume payload does not match what the session awaits.
	ErrMalformedResumeInput = errors.New("malformed resume input")

	// ErrCollaboratorUnavailable: search or text generation failed.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
)
