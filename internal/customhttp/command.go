package customhttp

import "net/http"

// HTTPCommand is the outbound transport used by the API clients.
type HTTPCommand interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

type httpCommandFunc func(req *http.Request) (resp *http.Response, err error)

func (h httpCommandFunc) Do(req *http.Request) (resp *http.Response, err error) {
	return h(req)
}

type HTTPCommandBuilder struct {
	client      HTTPCommand
	middlewares []middleware
}

func New(options ...func(*HTTPCommandBuilder)) *HTTPCommandBuilder {
	builder := &HTTPCommandBuilder{
		client: http.DefaultClient,
	}

	for _, option := range options {
		option(builder)
	}
	return builder
}

func (b *HTTPCommandBuilder) Build() HTTPCommand {
	if len(b.middlewares) == 0 {
		return chainMiddleware(noOpsMiddleware())(b.client.Do)
	}
	return chainMiddleware(b.middlewares...)(b.client.Do)
}

// WithHTTPClient allows the user to supply their own http.Client
func WithHTTPClient(client HTTPCommand) func(*HTTPCommandBuilder) {
	return func(builder *HTTPCommandBuilder) {
		builder.client = client
	}
}

// WithRequestLogging logs method, URL (without query) and status of every outbound call
func WithRequestLogging() func(*HTTPCommandBuilder) {
	return func(builder *HTTPCommandBuilder) {
		builder.middlewares = append(builder.middlewares, loggingMiddleware())
	}
}
