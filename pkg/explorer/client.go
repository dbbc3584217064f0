package explorer

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	// DefaultRequestTimeout is the timeout applied to HTTP requests if not
	// otherwise specified.
	DefaultRequestTimeout = 15 * time.Second
	// DefaultRateLimit is the default max number of requests per second.
	DefaultRateLimit = 10
)

var (
	// MaxNumOfFailingRequests is the number of requests after which the
	// circuit breaker starts evaluating the failing ratio.
	MaxNumOfFailingRequests = 20
	// FailingRatio is the ratio of failing requests that opens the circuit.
	FailingRatio = 0.7

	requestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinjoin",
			Name:      "explorer_requests_total",
			Help:      "Number of HTTP requests made to the chain data provider.",
		},
		[]string{"method", "result"},
	)
)

// Collectors returns the prometheus collectors of this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{requestsCounter}
}

// ClientOpts is the struct given to NewClient method
type ClientOpts struct {
	RequestTimeout time.Duration
	RateLimit      int
}

// Client is an HTTP client that limits the rate of the requests made to the
// chain data provider and stops issuing them if the provider seems down.
type Client struct {
	client  *http.Client
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

// NewClient returns a new Client. Zero values of the options are replaced by
// the defaults.
func NewClient(opts ClientOpts) *Client {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	rateLimit := opts.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	return &Client{
		client:  &http.Client{Timeout: timeout},
		limiter: ratelimit.New(rateLimit),
		cb:      newCircuitBreaker(),
	}
}

// NewHTTPRequest makes an HTTP request with the given method, body and
// headers and returns the response status code and body.
func (c *Client) NewHTTPRequest(
	method, url, bodyString string, header map[string]string,
) (int, string, error) {
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return 0, "", fmt.Errorf("verb not supported %s", method)
	}

	c.limiter.Take()

	type response struct {
		status int
		body   string
	}

	res, err := c.cb.Execute(func() (interface{}, error) {
		var body *strings.Reader
		if method == http.MethodPost {
			body = strings.NewReader(bodyString)
		} else {
			body = strings.NewReader("")
		}

		req, err := http.NewRequest(method, url, body)
		if err != nil {
			return nil, err
		}
		for key, value := range header {
			req.Header.Set(key, value)
		}

		rs, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer rs.Body.Close()

		bodyBytes, err := ioutil.ReadAll(rs.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse response body: %s", err)
		}
		if rs.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf(
				"provider answered with status %d: %s", rs.StatusCode, bodyBytes,
			)
		}

		return response{rs.StatusCode, string(bodyBytes)}, nil
	})
	if err != nil {
		requestsCounter.WithLabelValues(method, "failure").Inc()
		return 0, "", NewProviderError("%s %s: %s", method, url, err)
	}

	requestsCounter.WithLabelValues(method, "success").Inc()
	r := res.(response)
	return r.status, r.body, nil
}

func newCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "explorer",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests &&
				failureRatio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.Warn("explorer seems down, stop allowing requests")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				log.Info("checking explorer status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				log.Info("explorer seems ok, restart allowing requests")
			}
		},
	})
}
