package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/healthsvc"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/file"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/kube"
)

var scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(binderyv1alpha1.AddToScheme(scheme))
}

func main() {
	var listenAddr string
	var snapshot string
	var namespace string
	var interval time.Duration
	flag.StringVar(&listenAddr, "listen", ":50051", "address to listen on")
	flag.StringVar(&snapshot, "snapshot", "", "serve health from a snapshot file instead of the cluster")
	flag.StringVar(&namespace, "namespace", "", "namespace holding the inventory")
	flag.DurationVar(&interval, "interval", 30*time.Second, "how often the inventory is captured")

	opts := zap.Options{}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	logger := zap.New(zap.UseFlagOptions(&opts))
	ctrl.SetLogger(logger)
	setupLog := logger.WithName("setup")

	src, err := newSource(snapshot, namespace)
	if err != nil {
		setupLog.Error(err, "unable to open inventory")
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		setupLog.Error(err, "unable to listen", "address", listenAddr)
		os.Exit(1)
	}

	publisher := healthsvc.NewPublisher()
	grpcServer := grpc.NewServer()
	publisher.Register(grpcServer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.IntoContext(ctx, logger.WithName("health"))

	go publisher.Watch(ctx, src, interval)
	go func() {
		<-ctx.Done()
		publisher.Shutdown()
		grpcServer.GracefulStop()
	}()

	setupLog.Info("serving health", "address", listenAddr, "interval", interval.String())
	if err := grpcServer.Serve(lis); err != nil {
		setupLog.Error(err, "grpc serve")
		os.Exit(1)
	}
}

// newSource reads the snapshot file when given. Otherwise it lists the
// cluster named by --kubeconfig, or the in-cluster config.
func newSource(snapshot, namespace string) (inventory.Source, error) {
	if snapshot != "" {
		src, err := file.Load(snapshot)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	cfg, err := ctrl.GetConfig()
	if err != nil {
		return nil, err
	}
	cl, err := client.New(cfg, client.Options{Scheme: scheme})
	if err != nil {
		return nil, err
	}
	src, err := kube.NewSource(cl, namespace, nil)
	if err != nil {
		return nil, err
	}
	return src, nil
}
