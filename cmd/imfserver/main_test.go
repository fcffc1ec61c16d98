package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/google/uuid"

	"imf-reader/internal/catalog"
	"imf-reader/internal/demux"
	"imf-reader/internal/handlers"
	"imf-reader/internal/imf"
	"imf-reader/internal/logging"
	"imf-reader/internal/metrics"
	"imf-reader/internal/startup"
)

var serverAssetID = uuid.MustParse("6b8d0f2a-4c6e-4a8b-9d1f-3a5c7e9b1d3f")

func writeServerPackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"CPL.xml": fmt.Sprintf(`<CompositionPlaylist>
  <Id>urn:uuid:%s</Id><ContentTitle>Server test</ContentTitle><EditRate>25 1</EditRate>
  <SegmentList><Segment><Id>urn:uuid:%s</Id><SequenceList>
    <MainImageSequence><Id>urn:uuid:%s</Id><TrackId>urn:uuid:%s</TrackId><ResourceList>
      <Resource><Id>urn:uuid:%s</Id><IntrinsicDuration>25</IntrinsicDuration><TrackFileId>urn:uuid:%s</TrackFileId></Resource>
    </ResourceList></MainImageSequence>
  </SequenceList></Segment></SegmentList>
</CompositionPlaylist>`, uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), serverAssetID),
		"ASSETMAP.xml": fmt.Sprintf(`<AssetMap><AssetList><Asset><Id>urn:uuid:%s</Id>
  <ChunkList><Chunk><Path>video.mxf</Path></Chunk></ChunkList></Asset></AssetList></AssetMap>`, serverAssetID),
		"video.mxf": "essence",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "CPL.xml")
}

func openServerPackage(t *testing.T, config *startup.Config) *imf.Package {
	t.Helper()
	registry := demux.NewRegistry()
	if err := imf.Register(registry, packageOptions(config, logging.Nop())); err != nil {
		t.Fatal(err)
	}
	pkg, err := openPackage(context.Background(), registry, config)
	if err != nil {
		t.Fatalf("openPackage() error = %v", err)
	}
	t.Cleanup(func() { _ = pkg.Close() })
	return pkg
}

func TestOpenPackageThroughRegistry(t *testing.T) {
	config := startup.FromEnv()
	config.CPLPath = writeServerPackage(t)

	pkg := openServerPackage(t, config)
	if pkg.CPL().ContentTitle != "Server test" {
		t.Errorf("title = %q", pkg.CPL().ContentTitle)
	}
}

func TestOpenPackageNoDemuxer(t *testing.T) {
	config := startup.FromEnv()
	config.CPLPath = "/packages/composition.json"

	registry := demux.NewRegistry()
	if err := imf.Register(registry, packageOptions(config, logging.Nop())); err != nil {
		t.Fatal(err)
	}
	if _, err := openPackage(context.Background(), registry, config); err == nil {
		t.Error("expected an error for an unclaimed extension")
	}
}

func TestOpenPackageAssetMapOverride(t *testing.T) {
	config := startup.FromEnv()
	config.CPLPath = writeServerPackage(t)
	config.AssetMapPath = filepath.Join(t.TempDir(), "ASSETMAP.xml")

	registry := demux.NewRegistry()
	if err := imf.Register(registry, packageOptions(config, logging.Nop())); err != nil {
		t.Fatal(err)
	}
	if _, err := openPackage(context.Background(), registry, config); err == nil {
		t.Error("expected the missing override asset map to fail the open")
	}
}

func TestRouterEndpoints(t *testing.T) {
	config := startup.FromEnv()
	config.CPLPath = writeServerPackage(t)
	pkg := openServerPackage(t, config)

	router := setupRouter(handlers.New(pkg, nil, 1, logging.Nop()), true)
	handler, err := buildHandler(router, config, logging.Nop())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodHead, "/livez", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/composition", http.StatusOK},
		{http.MethodGet, "/api/assets", http.StatusOK},
		{http.MethodGet, "/api/resolve/" + serverAssetID.String(), http.StatusOK},
		{http.MethodGet, "/api/resolve/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodGet, "/api/verify", http.StatusOK},
		{http.MethodGet, "/api/catalog/packages", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/verify", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/resolve/" + serverAssetID.String(), http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/catalog/packages", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestResolveRouteBody(t *testing.T) {
	config := startup.FromEnv()
	config.CPLPath = writeServerPackage(t)
	pkg := openServerPackage(t, config)
	router := setupRouter(handlers.New(pkg, nil, 1, logging.Nop()), false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/resolve/urn:uuid:"+serverAssetID.String(), nil))

	var resolved imf.ResolvedAsset
	if err := json.Unmarshal(w.Body.Bytes(), &resolved); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	if resolved.URI != filepath.Dir(config.CPLPath)+"/video.mxf" {
		t.Errorf("uri = %q", resolved.URI)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("/metrics with metrics disabled = %d, want 404", w.Code)
	}
}

func TestHandleShutdownClosesEverything(t *testing.T) {
	config := startup.FromEnv()
	config.CPLPath = writeServerPackage(t)
	pkg := openServerPackage(t, config)

	cat, err := catalog.New(context.Background(), filepath.Join(t.TempDir(), "catalog.db"), logging.Nop())
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	collector := metrics.NewCollector(cat, time.Hour, logging.Nop())
	collector.Start()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := &http.Server{Handler: setupRouter(handlers.New(pkg, cat, 1, logging.Nop()), false)}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		handleShutdown(sigChan, srv, pkg, cat, collector)
	}()
	sigChan <- syscall.SIGTERM

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("handleShutdown did not return")
	}

	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Serve() error = %v, want ErrServerClosed", err)
	}
	if _, err := pkg.ResolveURI(serverAssetID); !errors.Is(err, imf.ErrClosed) {
		t.Errorf("ResolveURI() after shutdown error = %v, want ErrClosed", err)
	}
	if _, err := cat.ListPackages(context.Background()); err == nil {
		t.Error("ListPackages() after shutdown should fail on a closed catalog")
	}
}
