package adapter

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"parcel-tracker/internal/core/logger"
	"parcel-tracker/internal/core/proxy"
	"parcel-tracker/internal/features/tracking/domain"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// BrowserFetcher loads carrier pages in headless Chromium for carriers that only
// render their result with JavaScript or block non-browser clients.
// The document request itself is replaced by the described one through request
// hijacking, so POST forms work the same as with HTTPFetcher.
type BrowserFetcher struct {
	client *http.Client
	proxy  proxy.Settings
	logger *zap.Logger

	mu        sync.Mutex
	forwarder *proxy.Forwarder
}

// routerStopper is the part of *rod.HijackRouter used on teardown.
type routerStopper interface {
	Stop() error
}

// documentClaim hands the described request to exactly one hijacked document
// request, the top-level navigation. Iframes load unchanged.
type documentClaim struct {
	taken atomic.Bool
}

func (c *documentClaim) claim() bool {
	return c.taken.CompareAndSwap(false, true)
}

// NewBrowserFetcher creates a fetcher that loads the document through client and
// points the browser at the configured proxy.
func NewBrowserFetcher(client *http.Client, settings proxy.Settings) *BrowserFetcher {
	return &BrowserFetcher{
		client: client,
		proxy:  settings,
		logger: logger.Get(),
	}
}

// Fetch renders req.URL and returns the resulting DOM as HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context, req *domain.RequestDescriptor) ([]byte, error) {
	proxyAddr, err := f.proxyAddr()
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Launching browser...",
		zap.String("url", req.URL),
		zap.Bool("proxy_enabled", proxyAddr != ""),
	)

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)
	if proxyAddr != "" {
		l = l.Proxy(proxyAddr)
	}
	defer l.Cleanup()

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	router := page.HijackRequests()
	defer f.stopRouter(router)

	var (
		hijackMu  sync.Mutex
		hijackErr error
		document  documentClaim
	)
	err = router.Add("*", proto.NetworkResourceTypeDocument, func(h *rod.Hijack) {
		if !document.claim() {
			h.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}

		httpReq := h.Request.Req()
		httpReq.Method = req.Method
		for key, values := range req.Header {
			httpReq.Header[key] = append([]string(nil), values...)
		}
		if req.Body != "" {
			h.Request.SetBody(req.Body)
		}

		if err := h.LoadResponse(f.client, true); err != nil {
			hijackMu.Lock()
			hijackErr = err
			hijackMu.Unlock()
			h.Response.Fail(proto.NetworkErrorReasonFailed)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register request hijack: %w", err)
	}
	go router.Run()

	navErr := page.Navigate(req.URL)
	if navErr == nil {
		navErr = page.WaitLoad()
	}

	hijackMu.Lock()
	loadErr := hijackErr
	hijackMu.Unlock()
	if loadErr != nil {
		return nil, fmt.Errorf("failed to load carrier page: %w", loadErr)
	}
	if navErr != nil {
		return nil, fmt.Errorf("failed to navigate to carrier page: %w", navErr)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered page: %w", err)
	}
	return []byte(html), nil
}

// Close stops the local proxy forwarder if one was started.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forwarder == nil {
		return nil
	}
	err := f.forwarder.Stop()
	f.forwarder = nil
	return err
}

// stopRouter ends request hijacking. It fails once the lookup context is done,
// which only matters for logs.
func (f *BrowserFetcher) stopRouter(r routerStopper) {
	if err := r.Stop(); err != nil {
		f.logger.Debug("Failed to stop request hijacking", zap.Error(err))
	}
}

// proxyAddr returns the proxy Chromium should use. Authenticated upstreams are
// fronted by a local forwarder because Chromium takes no credentials on its command line.
func (f *BrowserFetcher) proxyAddr() (string, error) {
	if !f.proxy.HasProxy() {
		return "", nil
	}
	if !f.proxy.HasCredentials() {
		return f.proxy.HostPort(), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forwarder == nil {
		forwarder, err := proxy.NewForwarder(f.proxy)
		if err != nil {
			return "", fmt.Errorf("failed to start proxy forwarder: %w", err)
		}
		f.forwarder = forwarder
	}

	addr, err := f.forwarder.Start()
	if err != nil {
		return "", fmt.Errorf("failed to start proxy forwarder: %w", err)
	}
	return addr, nil
}
