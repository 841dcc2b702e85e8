package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/session"
)

// ErrSubmissionInFlight is returned when a message is submitted, or the
// transcript reset, while a previous submission awaits its response
var ErrSubmissionInFlight = errors.New("a message is already awaiting a response")

// State is the submission state of a chat session
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting response"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of the last submission
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeFulfilled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFulfilled:
		return "fulfilled"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// ChatSession drives submissions for one session: it appends the user turn,
// hands a snapshot of the transcript to the completion client and folds the
// reply back in. The session's transcript is only mutated here and through
// Reset.
type ChatSession struct {
	client CompletionClient
	store  *session.Session

	mu          sync.Mutex
	config      models.RequestConfig
	state       State
	lastOutcome Outcome
	lastErr     error
	lastReply   *models.Completion
	inFlight    *Submission
}

// Submission is one in-flight completion call. Send performs the network
// call without touching the session; ChatSession.Resolve applies the result.
type Submission struct {
	client     CompletionClient
	request    CompletionRequest
	completion *models.Completion
}

// NewChatSession creates a chat session over store using client
func NewChatSession(client CompletionClient, store *session.Session, cfg models.RequestConfig) *ChatSession {
	if store == nil {
		store = session.New()
	}
	return &ChatSession{
		client: client,
		store:  store,
		config: cfg.Normalize(),
	}
}

// Session returns the underlying transcript store
func (s *ChatSession) Session() *session.Session {
	return s.store
}

// Config returns the current sampling settings
func (s *ChatSession) Config() models.RequestConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetConfig replaces the sampling settings used by later submissions
func (s *ChatSession) SetConfig(cfg models.RequestConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg.Normalize()
}

// SetModel selects a model from the fixed model list
func (s *ChatSession) SetModel(id string) error {
	if _, ok := models.ModelFromID(id); !ok {
		return fmt.Errorf("unknown model %q (available: %s)", id, strings.Join(models.ModelIDs(), ", "))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.Model = id
	return nil
}

// State returns the submission state
func (s *ChatSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastOutcome returns the result of the most recent submission and its error
func (s *ChatSession) LastOutcome() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutcome, s.lastErr
}

// LastCompletion returns the completion of the most recent fulfilled
// submission, or nil
func (s *ChatSession) LastCompletion() *models.Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReply
}

// Submit starts a submission: it checks the credential, appends the user
// turn and snapshots the transcript. Without a credential nothing is
// appended and ErrMissingCredential is returned.
func (s *ChatSession) Submit(prompt string) (*Submission, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAwaitingResponse {
		return nil, ErrSubmissionInFlight
	}

	// Refused before leaving Idle, so the last outcome still describes
	// the previous submission.
	credential := s.store.Credential()
	if credential == "" {
		return nil, apierrors.ErrMissingCredential
	}

	if err := s.store.Append(models.NewUserTurn(prompt)); err != nil {
		return nil, err
	}

	sub := &Submission{
		client: s.client,
		request: CompletionRequest{
			Credential: credential,
			Config:     s.config,
			Turns:      s.store.Turns(),
		},
	}
	s.state = StateAwaitingResponse
	s.inFlight = sub
	return sub, nil
}

// Request returns the snapshot this submission sends
func (sub *Submission) Request() CompletionRequest {
	return sub.request
}

// Completion returns the parsed reply after a successful Send
func (sub *Submission) Completion() *models.Completion {
	return sub.completion
}

// Send performs the completion call. It blocks for at most the client's
// timeout and is safe to run off the UI goroutine.
func (sub *Submission) Send(ctx context.Context) (models.Turn, error) {
	completion, err := sub.client.Complete(ctx, sub.request)
	if err != nil {
		return models.Turn{}, err
	}
	sub.completion = completion
	return completion.Turn(), nil
}

// Resolve applies the result of sub and returns the session to idle. On
// success the assistant turn is appended; on failure the transcript is left
// as it is and sendErr is returned.
func (s *ChatSession) Resolve(sub *Submission, turn models.Turn, sendErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub == nil || sub != s.inFlight {
		return fmt.Errorf("submission is not in flight")
	}
	s.inFlight = nil
	s.state = StateIdle

	if sendErr != nil {
		s.lastOutcome = OutcomeFailed
		s.lastErr = sendErr
		return sendErr
	}

	if err := s.store.Append(turn); err != nil {
		err = apierrors.NewParseError(err.Error(), PathContent)
		s.lastOutcome = OutcomeFailed
		s.lastErr = err
		return err
	}

	s.lastOutcome = OutcomeFulfilled
	s.lastErr = nil
	s.lastReply = sub.completion
	return nil
}

// SendMessage runs a whole submission synchronously and returns the
// assistant turn
func (s *ChatSession) SendMessage(ctx context.Context, prompt string) (models.Turn, error) {
	sub, err := s.Submit(prompt)
	if err != nil {
		return models.Turn{}, err
	}

	turn, sendErr := sub.Send(ctx)
	if err := s.Resolve(sub, turn, sendErr); err != nil {
		return models.Turn{}, err
	}
	return turn, nil
}

// Reset clears the transcript. It is refused while a response is awaited.
func (s *ChatSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAwaitingResponse {
		return ErrSubmissionInFlight
	}
	s.store.Clear()
	s.lastOutcome = OutcomeNone
	s.lastErr = nil
	s.lastReply = nil
	return nil
}
