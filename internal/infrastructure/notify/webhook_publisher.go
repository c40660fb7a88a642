// Package notify delivers roster events to subscriber webhooks. Delivery is
// best-effort and fully decoupled from the request path.
package notify

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/draft-league/draftroom/internal/domain/feed"
	"github.com/draft-league/draftroom/internal/platform/resilience"
)

type WebhookPublisherConfig struct {
	URL       string
	AuthToken string
	Timeout   time.Duration
	Breaker   resilience.CircuitBreakerConfig
}

// WebhookPublisher POSTs one JSON document per event to a configured
// endpoint. A circuit breaker sheds deliveries while the endpoint is down so
// a dead subscriber cannot back the dispatcher up.
type WebhookPublisher struct {
	client    *fasthttp.Client
	url       string
	authToken string
	timeout   time.Duration
	breaker   *resilience.CircuitBreaker
}

func NewWebhookPublisher(cfg WebhookPublisherConfig) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Breaker.Enabled {
		b := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)
		breaker = resilience.NewCircuitBreaker(b.FailureThreshold, b.OpenTimeout, b.HalfOpenMaxReq)
	}

	return &WebhookPublisher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		url:       strings.TrimSpace(cfg.URL),
		authToken: strings.TrimSpace(cfg.AuthToken),
		timeout:   timeout,
		breaker:   breaker,
	}
}

type webhookPayload struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ActorID   string    `json:"actor_id,omitempty"`
	PlayerID  string    `json:"player_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *WebhookPublisher) Publish(event feed.Event) error {
	if p.url == "" {
		return nil
	}
	if p.breaker != nil {
		if err := p.breaker.Allow(); err != nil {
			return errors.Wrap(err, "webhook delivery shed")
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigDefault.NewEncoder(buf)
	if err := enc.Encode(webhookPayload{
		ID:        event.ID,
		Kind:      string(event.Kind),
		ActorID:   event.ActorID,
		PlayerID:  event.PlayerID,
		Message:   event.Message,
		CreatedAt: event.CreatedAt,
	}); err != nil {
		return errors.Wrap(err, "encode webhook payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if p.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.authToken)
	}
	req.SetBody(buf.Bytes())

	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		p.recordFailure()
		return errors.Wrapf(err, "deliver webhook event %s", event.ID)
	}

	if resp.StatusCode()/100 != 2 {
		p.recordFailure()
		return errors.Newf("webhook event %s rejected with status %d", event.ID, resp.StatusCode())
	}
	p.recordSuccess()

	return nil
}

func (p *WebhookPublisher) recordSuccess() {
	if p.breaker != nil {
		p.breaker.RecordSuccess()
	}
}

func (p *WebhookPublisher) recordFailure() {
	if p.breaker != nil {
		p.breaker.RecordFailure()
	}
}
