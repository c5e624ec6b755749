package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/craftlink/marketplace-core/internal/core/domain"
	"github.com/craftlink/marketplace-core/internal/core/ports"
	"github.com/craftlink/marketplace-core/internal/metrics"
)

// SessionConfig tunes the session container.
type SessionConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// SimulatedLatency is the artificial delay applied to login and signup
	// submission. Zero disables the delay (useful in tests).
	SimulatedLatency time.Duration
}

// sessionSnapshot is the wire form of the persisted session record. The
// followed set is serialized as an id array; the signup draft and the
// session token are deliberately absent.
type sessionSnapshot struct {
	Identity        *domain.Identity   `json:"identity"`
	IsAuthenticated bool               `json:"is_authenticated"`
	FollowedUserIDs []string           `json:"followed_user_ids"`
	Preferences     domain.Preferences `json:"preferences"`
}

// SessionService holds the authenticated identity, the signup wizard draft,
// the followed-user set, and display preferences. In-memory state is
// authoritative; every mutation enqueues a wholesale snapshot write behind
// the caller.
type SessionService struct {
	mu        sync.Mutex
	identity  *domain.Identity
	authed    bool
	token     string
	following map[string]struct{}
	prefs     domain.Preferences
	draft     domain.SignupDraft

	validator *signupValidator
	writer    ports.SnapshotWriter
	nav       ports.Navigator
	cfg       SessionConfig
	log       zerolog.Logger
}

var _ ports.SessionService = (*SessionService)(nil)

// NewSessionService builds the container and rehydrates it from the session
// snapshot. A missing or unreadable snapshot yields defaults; rehydration
// failures are logged, never fatal. nav may be nil.
func NewSessionService(ctx context.Context, store ports.SnapshotStore, writer ports.SnapshotWriter, nav ports.Navigator, cfg SessionConfig, log zerolog.Logger) *SessionService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	s := &SessionService{
		following: make(map[string]struct{}),
		prefs:     domain.DefaultPreferences(),
		draft:     domain.NewSignupDraft(),
		validator: newSignupValidator(),
		writer:    writer,
		nav:       nav,
		cfg:       cfg,
		log:       log,
	}

	data, err := store.Load(ctx, ports.SnapshotSession)
	switch {
	case errors.Is(err, ports.ErrSnapshotNotFound):
		// first run
	case err != nil:
		log.Warn().Err(err).Msg("session snapshot unreadable, starting fresh")
	default:
		var snap sessionSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			log.Warn().Err(err).Msg("session snapshot corrupt, starting fresh")
			break
		}
		s.identity = snap.Identity
		s.authed = snap.IsAuthenticated
		for _, id := range snap.FollowedUserIDs {
			s.following[id] = struct{}{}
		}
		if snap.Preferences.TextSize != "" {
			s.prefs = snap.Preferences
		}
	}

	return s
}

// Login authenticates with the given credentials. Authentication is mocked:
// any non-empty pair is accepted after the simulated latency, and a client
// identity is materialized on the spot.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	identity := &domain.Identity{
		ID:        fmt.Sprintf("user_%d", now.UnixMilli()),
		Email:     email,
		FullName:  displayName(email),
		Role:      domain.RoleClient,
		Verified:  true,
		CreatedAt: now,
	}

	token, err := s.mintToken(identity)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.identity = identity
	s.authed = true
	s.token = token
	s.persistLocked()
	s.mu.Unlock()

	s.log.Info().Str("user_id", identity.ID).Msg("logged in")
	s.navigate(ports.RouteHome)
	return identity, nil
}

// Logout resets identity, authenticated flag, followed set, and preferences
// to defaults.
func (s *SessionService) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.authed = false
	s.token = ""
	s.following = make(map[string]struct{})
	s.prefs = domain.DefaultPreferences()
	s.persistLocked()
	s.mu.Unlock()

	s.log.Info().Msg("logged out")
	s.navigate(ports.RouteLogin)
}

func (s *SessionService) Identity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	clone := *s.identity
	return &clone
}

func (s *SessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// FollowUser adds id to the followed set. Adding an existing member is a
// no-op.
func (s *SessionService) FollowUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.following[id]; ok {
		return
	}
	s.following[id] = struct{}{}
	s.persistLocked()
}

// UnfollowUser removes id from the followed set. Removing a non-member is a
// no-op.
func (s *SessionService) UnfollowUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.following[id]; !ok {
		return
	}
	delete(s.following, id)
	s.persistLocked()
}

func (s *SessionService) IsFollowing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.following[id]
	return ok
}

// FollowedUsers returns the followed ids in stable order.
func (s *SessionService) FollowedUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.followedLocked()
}

func (s *SessionService) SetDarkMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.DarkMode = on
	s.persistLocked()
}

func (s *SessionService) SetTextSize(size domain.TextSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.TextSize = size
	s.persistLocked()
}

func (s *SessionService) Preferences() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Draft returns a copy of the current signup draft.
func (s *SessionService) Draft() domain.SignupDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// UpdateDraft applies the non-nil fields of patch to the draft. The draft is
// memory-only, so no snapshot write is scheduled.
func (s *SessionService) UpdateDraft(patch ports.DraftPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &s.draft

	setString(&d.FullName, patch.FullName)
	setString(&d.Email, patch.Email)
	setString(&d.Phone, patch.Phone)
	setString(&d.Password, patch.Password)
	setString(&d.ConfirmPassword, patch.ConfirmPassword)
	if patch.Role != nil {
		d.Role = *patch.Role
	}
	setString(&d.LicenseNumber, patch.LicenseNumber)
	setString(&d.LicenseImageRef, patch.LicenseImageRef)
	setString(&d.Specialization, patch.Specialization)
	if patch.YearsExperience != nil {
		d.YearsExperience = *patch.YearsExperience
	}
	setString(&d.Bio, patch.Bio)
	if patch.PortfolioLinks != nil {
		d.PortfolioLinks = *patch.PortfolioLinks
	}
	if patch.PortfolioImages != nil {
		d.PortfolioImages = *patch.PortfolioImages
	}
	setString(&d.Location, patch.Location)
	if patch.WorkPreferences != nil {
		d.WorkPreferences = *patch.WorkPreferences
	}
	if patch.AgreeTerms != nil {
		d.AgreeTerms = *patch.AgreeTerms
	}
	if patch.AgreePrivacy != nil {
		d.AgreePrivacy = *patch.AgreePrivacy
	}
}

// NextStep validates the current step and advances the wizard.
//
// Step 1 submits directly for the client role and moves professionals to
// step 2. Steps 2 and 3 move forward, step 4 submits. A validation failure
// returns *domain.ValidationError and leaves the draft untouched.
func (s *SessionService) NextStep(ctx context.Context) (*ports.StepResult, error) {
	s.mu.Lock()
	draft := s.draft
	s.mu.Unlock()

	if err := s.validator.checkStep(draft.Step, draft); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			s.log.Debug().Int("step", draft.Step).Str("errors", summarize(ve)).Msg("wizard step blocked")
		}
		return nil, err
	}

	if draft.Step == 1 && draft.Role == domain.RoleClient {
		return s.submit(ctx)
	}
	if draft.Step == 4 {
		return s.submit(ctx)
	}

	s.mu.Lock()
	// Re-check the step was not moved concurrently before advancing.
	if s.draft.Step == draft.Step {
		s.draft.Step++
	}
	step := s.draft.Step
	s.mu.Unlock()

	return &ports.StepResult{Step: step}, nil
}

// BackStep moves the wizard one step back, never below step 1.
func (s *SessionService) BackStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.Step > 1 {
		s.draft.Step--
	}
}

// SkipPortfolio bypasses the portfolio gate: portfolio fields are cleared so
// the committed identity omits them, and the wizard moves to step 4.
func (s *SessionService) SkipPortfolio() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.Step != 3 {
		return
	}
	s.draft.Bio = ""
	s.draft.PortfolioLinks = nil
	s.draft.PortfolioImages = nil
	s.draft.Step = 4
}

// ResetDraft discards in-progress signup state.
func (s *SessionService) ResetDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = domain.NewSignupDraft()
}

// AttachLicenseImage stores the picked file reference on the draft verbatim.
func (s *SessionService) AttachLicenseImage(ctx context.Context, picker ports.ImagePicker) error {
	ref, err := picker.PickImage(ctx)
	if err != nil {
		return fmt.Errorf("pick license image: %w", err)
	}
	s.mu.Lock()
	s.draft.LicenseImageRef = ref
	s.mu.Unlock()
	return nil
}

// AddPortfolioImage appends the picked file reference to the draft verbatim.
func (s *SessionService) AddPortfolioImage(ctx context.Context, picker ports.ImagePicker) error {
	ref, err := picker.PickImage(ctx)
	if err != nil {
		return fmt.Errorf("pick portfolio image: %w", err)
	}
	s.mu.Lock()
	s.draft.PortfolioImages = append(s.draft.PortfolioImages, ref)
	s.mu.Unlock()
	return nil
}

// submit materializes the draft into an identity, authenticates, and resets
// the draft. Submission is simulated: the only failure modes are context
// cancellation and the hashing boundary, surfaced as ErrSignupRejected.
func (s *SessionService) submit(ctx context.Context) (*ports.StepResult, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	draft := s.draft
	s.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error().Err(err).Msg("signup submission failed")
		return nil, domain.ErrSignupRejected
	}

	now := time.Now()
	identity := &domain.Identity{
		ID:           fmt.Sprintf("user_%d", now.UnixMilli()),
		Email:        draft.Email,
		FullName:     draft.FullName,
		Phone:        draft.Phone,
		Role:         draft.Role,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if draft.Role == domain.RoleProfessional {
		identity.LicenseNumber = draft.LicenseNumber
		identity.LicenseImageRef = draft.LicenseImageRef
		identity.Specialization = draft.Specialization
		identity.YearsExperience = draft.YearsExperience
		identity.Bio = draft.Bio
		identity.PortfolioLinks = draft.PortfolioLinks
		identity.PortfolioImages = draft.PortfolioImages
		identity.Location = draft.Location
		identity.WorkPreferences = draft.WorkPreferences
	}

	token, err := s.mintToken(identity)
	if err != nil {
		s.log.Error().Err(err).Msg("signup token mint failed")
		return nil, domain.ErrSignupRejected
	}

	s.mu.Lock()
	s.identity = identity
	s.authed = true
	s.token = token
	s.draft = domain.NewSignupDraft()
	s.persistLocked()
	s.mu.Unlock()

	metrics.SignupsCompletedTotal.WithLabelValues(string(identity.Role)).Inc()
	s.log.Info().Str("user_id", identity.ID).Str("role", string(identity.Role)).Msg("signup completed")
	s.navigate(ports.RouteHome)

	return &ports.StepResult{Completed: true, Identity: identity}, nil
}

func (s *SessionService) mintToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":  identity.ID,
		"role": string(identity.Role),
		"exp":  time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *SessionService) simulateLatency(ctx context.Context) error {
	if s.cfg.SimulatedLatency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.cfg.SimulatedLatency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// persistLocked serializes the snapshot under the lock and hands it to the
// write-behind path. The draft and the token never enter the snapshot.
func (s *SessionService) persistLocked() {
	snap := sessionSnapshot{
		Identity:        s.identity,
		IsAuthenticated: s.authed,
		FollowedUserIDs: s.followedLocked(),
		Preferences:     s.prefs,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Error().Err(err).Msg("session snapshot encode failed")
		return
	}
	s.writer.Enqueue(ports.SnapshotSession, data)
}

func (s *SessionService) followedLocked() []string {
	ids := make([]string, 0, len(s.following))
	for id := range s.following {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *SessionService) navigate(route string) {
	if s.nav != nil {
		s.nav.Navigate(route)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// displayName derives a placeholder name from the login email. Mock login
// imposes no shape on credentials, so the whole string is used when there is
// no '@'.
func displayName(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
