package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gem-curator-be/internal/dto"
	"gem-curator-be/internal/pkg/logger"
	"gem-curator-be/internal/repository/specification"
	"gem-curator-be/internal/repository/unitofwork"
	"gem-curator-be/pkg/curator"
	"gem-curator-be/pkg/events"

	"github.com/google/uuid"
)

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrSessionForbidden = errors.New("session belongs to another user")
)

type ICuratorService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartCurationRequest) (*dto.CurationSessionResponse, error)
	Resume(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.ResumeCurationRequest) (*dto.CurationSessionResponse, error)
	Get(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.CurationSessionResponse, error)
}

type curatorService struct {
	uowFactory     unitofwork.RepositoryFactory
	supervisor     *curator.Supervisor
	store          curator.SessionStore
	eventPublisher events.Publisher
	logger         logger.ILogger

	// serializes resumes of the same session within this process;
	// an entry lives only while some request holds or waits on it
	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewCuratorService(
	uowFactory unitofwork.RepositoryFactory,
	supervisor *curator.Supervisor,
	store curator.SessionStore,
	eventPublisher events.Publisher,
	log logger.ILogger,
) ICuratorService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &curatorService{
		uowFactory:     uowFactory,
		supervisor:     supervisor,
		store:          store,
		eventPublisher: eventPublisher,
		logger:         log,
		locks:          make(map[string]*sessionLock),
	}
}

func (s *curatorService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartCurationRequest) (*dto.CurationSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	playlist, err := uow.PlaylistRepository().FindOne(ctx,
		specification.ByID{ID: req.PlaylistId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlaylistNotFound, req.PlaylistId)
	}

	st := curator.NewState(uuid.NewString(), playlist.Id.String(), userId.String())
	s.publish(ctx, events.CurationStarted, st)

	s.logger.Info("SESSION", "Curation started", map[string]interface{}{
		"session_id":  st.SessionID,
		"playlist_id": st.CollectionID,
		"user_id":     st.UserID,
	})

	return s.advance(ctx, st)
}

func (s *curatorService) Resume(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.ResumeCurationRequest) (*dto.CurationSessionResponse, error) {
	unlock := s.lock(sessionId)
	defer unlock()

	st, err := s.load(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	st, err = curator.Resume(st, curator.ResumeInput{
		SelectedDirection: req.SelectedDirection,
		KnownGroupIDs:     req.KnownGroupIds,
	})
	if err != nil {
		s.logger.Warn("SESSION", "Resume rejected", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, err
	}

	return s.advance(ctx, st)
}

func (s *curatorService) Get(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.CurationSessionResponse, error) {
	st, err := s.load(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(st, st.Awaiting()), nil
}

// advance runs the supervisor to the next suspension or to completion and
// persists the snapshot. Sessions are only saved at these boundaries.
func (s *curatorService) advance(ctx context.Context, st curator.State) (*dto.CurationSessionResponse, error) {
	st, suspended := s.supervisor.Step(ctx, st)
	st.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("%w: save session: %v", curator.ErrCollaboratorUnavailable, err)
	}

	switch {
	case suspended:
		s.publish(ctx, events.CurationSuspended, st)
	case st.Status == curator.StatusFailed:
		s.publish(ctx, events.CurationFailed, st)
	default:
		s.publish(ctx, events.CurationCompleted, st)
	}

	s.logger.Info("SESSION", "Session advanced", map[string]interface{}{
		"session_id": st.SessionID,
		"status":     st.Status,
		"suspended":  suspended,
		"iterations": st.IterationCount,
	})

	return toSessionResponse(st, suspended), nil
}

func (s *curatorService) load(ctx context.Context, userId uuid.UUID, sessionId string) (curator.State, error) {
	st, err := s.store.Load(ctx, sessionId)
	if err != nil {
		return curator.State{}, err
	}
	if st.UserID != userId.String() {
		return curator.State{}, fmt.Errorf("%w: %s", ErrSessionForbidden, sessionId)
	}
	return st, nil
}

func (s *curatorService) lock(sessionId string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[sessionId]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionId] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionId)
		}
		s.locksMu.Unlock()
	}
}

// publish is best effort; lifecycle events never fail a request.
func (s *curatorService) publish(ctx context.Context, eventType string, st curator.State) {
	if s.eventPublisher == nil {
		return
	}

	data := map[string]interface{}{
		"playlist_id": st.CollectionID,
		"status":      string(st.Status),
		"iterations":  st.IterationCount,
	}
	if st.Presentation != nil {
		data["cards"] = len(st.Presentation.Cards)
	}
	if st.Error != "" {
		data["error"] = st.Error
	}

	evt := events.NewCurationEvent(eventType, st.SessionID, st.UserID, data)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("EVENTS", "Failed to publish curation event", map[string]interface{}{
			"event":      eventType,
			"session_id": st.SessionID,
			"error":      err.Error(),
		})
	}
}

func toSessionResponse(st curator.State, suspended bool) *dto.CurationSessionResponse {
	res := &dto.CurationSessionResponse{
		SessionId:  st.SessionID,
		PlaylistId: st.CollectionID,
		Status:     string(st.Status),
		Suspended:  suspended,
		Direction:  st.Direction,
		Options:    make([]dto.CurationOptionResponse, 0),
		Cards:      make([]dto.CurationCardResponse, 0),
		Iterations: st.IterationCount,
		Error:      st.Error,
		CreatedAt:  st.CreatedAt,
		UpdatedAt:  st.UpdatedAt,
	}

	if p := st.Presentation; p != nil {
		res.Message = p.Message
		for _, o := range p.Options {
			res.Options = append(res.Options, dto.CurationOptionResponse{Label: o.Label, Value: o.Value})
		}
		for _, c := range p.Cards {
			res.Cards = append(res.Cards, dto.CurationCardResponse{
				TrackId:   c.ID,
				Title:     c.Title,
				Artist:    c.Group,
				Rationale: c.Rationale,
			})
		}
	}
	return res
}
