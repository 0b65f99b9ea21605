package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Exit codes: 0 serving, 1 not serving or unknown, 2 the check itself failed.
func main() {
	var target string
	var service string
	var timeout time.Duration
	flag.StringVar(&target, "target", "127.0.0.1:50051", "gRPC server address")
	flag.StringVar(&service, "service", "", `service to check, e.g. "module/org.example.api" or "component/web.Handler" ("" for overall)`)
	flag.DurationVar(&timeout, "timeout", 3*time.Second, "check timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", target, err)
		os.Exit(2)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check %q: %v\n", service, err)
		conn.Close()
		os.Exit(2)
	}

	name := service
	if name == "" {
		name = "<overall>"
	}
	fmt.Printf("%s: %s\n", name, resp.GetStatus())
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		conn.Close()
		os.Exit(1)
	}
}
