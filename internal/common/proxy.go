package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

var (
	ErrNotFound     = errors.New("data not found")
	ErrUnauthorized = errors.New("request not authorized")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

var messages = map[int]string{
	fasthttp.StatusOK:                   "OK",
	fasthttp.StatusBadRequest:           "Bad request",
	fasthttp.StatusUnauthorized:         "Unauthorized",
	fasthttp.StatusForbidden:            "Forbidden",
	fasthttp.StatusNotFound:             "Data not found",
	fasthttp.StatusMethodNotAllowed:     "Method not allowed",
	fasthttp.StatusNotAcceptable:        "Not acceptable",
	fasthttp.StatusUnsupportedMediaType: "Unsupported media type",
	fasthttp.StatusTooManyRequests:      "Rate limit exceeded",
	fasthttp.StatusInternalServerError:  "Internal server error",
	fasthttp.StatusBadGateway:           "Bad gateway",
	fasthttp.StatusServiceUnavailable:   "Service unavailable",
	fasthttp.StatusGatewayTimeout:       "Gateway timeout",
}

// Default deadline for a request when the context has none.
// Cancelling the context ends the wait for a request in flight
const requestTimeout = 10 * time.Second

type Proxy struct {
	header map[string]string
	client *fasthttp.Client
}

func NewProxy(header map[string]string) Proxy {
	return Proxy{
		header: header,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         requestTimeout,
			WriteTimeout:        requestTimeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

// Make a GET request to the provided url and return the body of the response.
// Status codes the stats API uses for known conditions map to the sentinel errors
func (proxy *Proxy) Request(ctx context.Context, url string) ([]byte, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	request := fasthttp.AcquireRequest()
	response := fasthttp.AcquireResponse()
	owned := true
	defer func() {
		if owned {
			fasthttp.ReleaseRequest(request)
			fasthttp.ReleaseResponse(response)
		}
	}()

	// Create the request and add the header
	request.SetRequestURI(url)
	request.Header.SetMethod(fasthttp.MethodGet)
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(requestTimeout)
	}
	// DoDeadline only knows about the deadline, so a cancellation is watched here
	done := make(chan error, 1)
	go func() {
		done <- proxy.client.DoDeadline(request, response, deadline)
	}()
	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Str("url", url).Msg("Could not perform request")
			return nil, fmt.Errorf("request to %s failed: %w", url, err)
		}
	case <-ctx.Done():
		// The client still uses the request and response until the call returns
		owned = false
		go func() {
			<-done
			fasthttp.ReleaseRequest(request)
			fasthttp.ReleaseResponse(response)
		}()
		log.Debug().Err(ctx.Err()).Str("url", url).Msg("Request abandoned")
		return nil, ctx.Err()
	}

	// Check if the status of the request is understood
	status := response.StatusCode()
	message, ok := messages[status]
	if !ok {
		log.Error().Int("status", status).Str("url", url).Msg("Status code of request is not understood")
		return nil, fmt.Errorf("unexpected status %d from %s", status, url)
	}
	log.Debug().Int("status", status).Str("url", url).Msg(message)

	switch status {
	case fasthttp.StatusOK:
		// The response is released on return, so the body has to be copied
		body := make([]byte, len(response.Body()))
		copy(body, response.Body())
		return body, nil
	case fasthttp.StatusNotFound:
		return nil, ErrNotFound
	case fasthttp.StatusUnauthorized, fasthttp.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case fasthttp.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("%s (%d) from %s", message, status, url)
	}
}
