// Command manifest-lsp is the language server for package.oriz manifests,
// speaking JSON-RPC 2.0 either over stdio or, with -quic, over a QUIC
// connection for editors that attach remotely. Grounded on
// cmd/orizon-lsp-orig/main.go's thin flag-parsing-then-delegate shape.
package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	quic "github.com/quic-go/quic-go"

	"github.com/orizon-lang/manifest-lsp/internal/audit"
	"github.com/orizon-lang/manifest-lsp/internal/config"
	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/lspserver"
	"github.com/orizon-lang/manifest-lsp/internal/registryclient"
	"github.com/orizon-lang/manifest-lsp/internal/resolverclient"
	"github.com/orizon-lang/manifest-lsp/internal/rpc"

	"github.com/orizon-lang/manifest-lsp/internal/controller"
)

const version = "0.1.0"

func main() {
	var (
		showVersion   = flag.Bool("version", false, "Show version information")
		showHelp      = flag.Bool("help", false, "Show help message")
		rootManifest  = flag.String("root", "package.oriz", "Path to the workspace root manifest")
		lockfile      = flag.String("lockfile", "package-lock.oriz", "Path to the workspace lock-file")
		cargoPath     = flag.String("cargo-path", "orizon-pkg", "Path or name of the orizon-pkg binary")
		auditDisabled = flag.Bool("audit-disabled", false, "Disable background security audits")
		quicAddr      = flag.String("quic", "", "Accept a single remote editor connection over QUIC at this address instead of stdio")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Language server for package.oriz manifests.\n")
		fmt.Fprintf(os.Stderr, "Communicates via stdin/stdout using JSON-RPC, unless -quic is given.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		fmt.Printf("manifest-lsp %s\n", version)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	cfg.SetCargoPath(*cargoPath)
	cfg.SetAuditDisabled(*auditDisabled)

	rootPath, err := filepath.Abs(*rootManifest)
	if err != nil {
		rootPath = *rootManifest
	}

	workspace := document.NewWorkspace()
	workspace.RootManifestPath = rootPath
	workspace.RootManifestURI = pathToURI(rootPath)

	registry := registryclient.NewCached(registryclient.NewInMemory(), 5*time.Minute)
	resolverClient := &resolverclient.ComposedClient{
		Primary:  resolverclient.NewSubprocess(cfg.CargoPath()),
		Fallback: resolverclient.New(workspace, registry),
	}
	auditRunner := audit.NewSubprocessRunner(cfg.CargoPath())

	if *quicAddr != "" {
		if err := runQUIC(ctx, *quicAddr, workspace, cfg, resolverClient, registry, auditRunner, rootPath, *lockfile); err != nil {
			log.Printf("manifest-lsp: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := runStdio(ctx, workspace, cfg, resolverClient, registry, auditRunner, rootPath, *lockfile); err != nil {
		log.Printf("manifest-lsp: %v", err)
		os.Exit(1)
	}
}

func runStdio(
	ctx context.Context,
	workspace *document.Workspace,
	cfg *config.Config,
	resolverClient *resolverclient.ComposedClient,
	registry registryclient.Client,
	auditRunner audit.Runner,
	rootManifest, lockfile string,
) error {
	conn := rpc.NewConn(os.Stdin, os.Stdout)
	return serve(ctx, conn, workspace, cfg, resolverClient, registry, auditRunner, rootManifest, lockfile)
}

// runQUIC accepts exactly one remote connection and serves it, mirroring
// the stdio path's single-client assumption: this server was never asked
// to multiplex several editors over one process.
func runQUIC(
	ctx context.Context,
	addr string,
	workspace *document.Workspace,
	cfg *config.Config,
	resolverClient *resolverclient.ComposedClient,
	registry registryclient.Client,
	auditRunner audit.Runner,
	rootManifest, lockfile string,
) error {
	tlsConf, err := selfSignedTLSConfig()
	if err != nil {
		return fmt.Errorf("generating TLS config: %w", err)
	}

	listener, err := quic.ListenAddr(addr, tlsConf, nil)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	defer listener.Close()

	qconn, err := listener.Accept(ctx)
	if err != nil {
		return fmt.Errorf("accepting connection: %w", err)
	}

	stream, err := qconn.AcceptStream(ctx)
	if err != nil {
		return fmt.Errorf("accepting stream: %w", err)
	}
	defer stream.Close()

	conn := rpc.NewConn(stream, stream)
	return serve(ctx, conn, workspace, cfg, resolverClient, registry, auditRunner, rootManifest, lockfile)
}

func serve(
	ctx context.Context,
	conn *rpc.Conn,
	workspace *document.Workspace,
	cfg *config.Config,
	resolverClient *resolverclient.ComposedClient,
	registry registryclient.Client,
	auditRunner audit.Runner,
	rootManifest, lockfile string,
) error {
	publisher := lspserver.NewPublisher(conn, workspace)

	ctrl := controller.New(
		workspace,
		cfg,
		resolverClient,
		registry,
		"",
		auditRunner,
		rootManifest,
		lockfile,
		lspserver.OSFileReader{},
		publisher,
	)

	stopWatch, err := workspace.WatchFiles(rootManifest, lockfile, func(string) {
		ctrl.LockChanged(ctx)
	})
	if err != nil {
		log.Printf("manifest-lsp: file watch disabled: %v", err)
	} else {
		defer stopWatch()
	}

	ctrlCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrlDone := make(chan error, 1)
	go func() { ctrlDone <- ctrl.Run(ctrlCtx) }()

	server := lspserver.New(conn, ctrl)
	serveErr := server.Run(ctx)

	cancel()
	<-ctrlDone

	return serveErr
}

// pathToURI converts an absolute filesystem path into a file:// URI, the
// minimal conversion this server's single-user, always-local-disk
// deployment needs (no percent-encoding of special characters, since a
// manifest path containing them is not a case this server has to survive).
func pathToURI(path string) string {
	path = filepath.ToSlash(path)
	if !filepath.IsAbs(path) && len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}
	return "file://" + path
}

// selfSignedTLSConfig generates an ephemeral self-signed certificate for
// the QUIC listener: this server has no certificate-provisioning story of
// its own, and a remote editor attaching over -quic is expected to pin the
// connection (e.g. over an SSH tunnel or a trusted LAN) rather than rely
// on certificate-authority validation.
func selfSignedTLSConfig() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	template := x509.Certificate{SerialNumber: big.NewInt(1)}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, NextProtos: []string{"manifest-lsp"}}, nil
}
