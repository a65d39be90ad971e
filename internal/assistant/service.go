package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/intent"
	"github.com/frostmart/storefront-service/internal/metrics"
)

// Canned replies. Failures never surface raw errors to the shopper.
const (
	disabledReply = "El asistente aún no está configurado. Añade una clave GEMINI_API_KEY para activar el chat."
	failureReply  = "Lo siento, algo salió mal al procesar tu mensaje. Por favor, inténtalo de nuevo."
)

// maxRecommendations caps the recommendation list.
const maxRecommendations = 3

// Message is one chat turn. History is in-memory only; it resets when
// the process restarts.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// Reply is the orchestrator's answer to one user turn. Intent is set
// only when the resolver detected buying language.
type Reply struct {
	Message Message        `json:"message"`
	Intent  *intent.Intent `json:"purchaseIntent,omitempty"`
}

// Service drives the assistant conversation.
type Service struct {
	provider      Provider
	catalog       *catalog.Service
	resolver      *intent.Resolver
	timeout       time.Duration
	historyWindow int
	excerptSize   int
	metrics       *metrics.Recorder
	logger        zerolog.Logger

	mu      sync.Mutex
	history []Message
	nextID  int
}

// NewService creates an assistant service.
func NewService(provider Provider, cat *catalog.Service, resolver *intent.Resolver, timeout time.Duration, historyWindow, excerptSize int, rec *metrics.Recorder, logger zerolog.Logger) *Service {
	return &Service{
		provider:      provider,
		catalog:       cat,
		resolver:      resolver,
		timeout:       timeout,
		historyWindow: historyWindow,
		excerptSize:   excerptSize,
		metrics:       rec,
		logger:        logger.With().Str("component", "assistant").Logger(),
	}
}

// Send processes one user turn: appends it to history, invokes the
// model with a bounded wait, resolves purchase intent over the reply,
// and appends the assistant turn. Collaborator failures and timeouts
// produce a canned apology instead of an error.
func (s *Service) Send(ctx context.Context, userMessage string) Reply {
	start := time.Now()
	s.append(userMessage, true)

	if !s.provider.Enabled() {
		s.metrics.RecordChatTurn("disabled", time.Since(start))
		return Reply{Message: s.append(disabledReply, false)}
	}

	products, err := s.catalog.Load(ctx, false)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Prompt built without catalog excerpt")
		products = nil
	}

	// The user turn is already in history; the prompt carries it
	// separately.
	history := s.History()
	prompt := BuildPrompt(products, history[:len(history)-1], userMessage, s.excerptSize, s.historyWindow)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	replyText, err := GenerateWithRetry(callCtx, s.provider, prompt, 1)
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		s.metrics.RecordChatTurn(outcome, time.Since(start))
		s.logger.Warn().Err(err).Str("outcome", outcome).Msg("Assistant turn failed")
		return Reply{Message: s.append(failureReply, false)}
	}

	minID, maxID := s.catalog.IDRange()
	mentions := intent.ExtractMentions(replyText, minID, maxID)
	verdict := s.resolver.Resolve(userMessage, mentions)

	reply := Reply{Message: s.append(replyText, false)}
	if verdict.Detected {
		reply.Intent = &verdict
		if len(verdict.ProductIDs) > 0 {
			s.metrics.RecordPurchaseIntent("resolved")
		} else {
			s.metrics.RecordPurchaseIntent("unresolved")
		}
	} else {
		s.metrics.RecordPurchaseIntent("none")
	}

	s.metrics.RecordChatTurn("success", time.Since(start))
	return reply
}

// History returns a copy of the conversation so far.
func (s *Service) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Clear discards the in-memory history.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Service) append(text string, isUser bool) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	msg := Message{
		ID:        "msg-" + strconv.Itoa(s.nextID),
		Text:      text,
		IsUser:    isUser,
		Timestamp: time.Now(),
	}
	s.history = append(s.history, msg)
	return msg
}

var idListPattern = regexp.MustCompile(`\d+`)

// Recommend asks the model for product suggestions given the cart
// contents, excluding products already in the cart. Falls back to the
// discounted subset of the catalog when the model is unavailable.
func (s *Service) Recommend(ctx context.Context, cartProductIDs []int) ([]catalog.Product, error) {
	products, err := s.catalog.Load(ctx, false)
	if err != nil {
		return nil, err
	}

	inCart := make(map[int]bool, len(cartProductIDs))
	for _, id := range cartProductIDs {
		inCart[id] = true
	}

	if s.provider.Enabled() {
		if recs := s.modelRecommendations(ctx, products, inCart); len(recs) > 0 {
			return recs, nil
		}
	}

	// Fallback: discounted products the shopper does not own yet.
	var recs []catalog.Product
	for _, p := range products {
		if p.Discounted() && !inCart[p.ID] {
			recs = append(recs, p)
			if len(recs) == maxRecommendations {
				break
			}
		}
	}
	return recs, nil
}

func (s *Service) modelRecommendations(ctx context.Context, products []catalog.Product, inCart map[int]bool) []catalog.Product {
	var cartIDs []string
	for id := range inCart {
		cartIDs = append(cartIDs, strconv.Itoa(id))
	}

	prompt := fmt.Sprintf(
		"Catálogo:\n%s\nEl cliente ya tiene en su carrito los productos con ID: %s.\n"+
			"Sugiere hasta %d productos complementarios. Responde SOLO con los ID separados por comas.",
		formatCatalogExcerpt(products, s.excerptSize),
		strings.Join(cartIDs, ", "),
		maxRecommendations)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	replyText, err := s.provider.Generate(callCtx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Recommendation call failed, using fallback")
		return nil
	}

	byID := make(map[int]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var recs []catalog.Product
	seen := make(map[int]bool)
	for _, raw := range idListPattern.FindAllString(replyText, -1) {
		id, err := strconv.Atoi(raw)
		if err != nil || inCart[id] || seen[id] {
			continue
		}
		p, ok := byID[id]
		if !ok {
			continue
		}
		seen[id] = true
		recs = append(recs, p)
		if len(recs) == maxRecommendations {
			break
		}
	}
	return recs
}
