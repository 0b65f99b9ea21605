package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	"sigs.k8s.io/controller-runtime/pkg/client"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/file"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/kube"
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(binderyv1alpha1.AddToScheme(scheme))
}

// inventory-seed loads a snapshot file into a namespace as ModuleManifests
// and ComponentDescriptors, so a cluster can reproduce a captured runtime.
func main() {
	var kubeconfig string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	} else {
		kubeconfig = os.Getenv("KUBECONFIG")
	}
	flag.StringVar(&kubeconfig, "kubeconfig", kubeconfig, "absolute path to the kubeconfig file")

	var snapshot string
	var namespace string
	var workers int
	flag.StringVar(&snapshot, "snapshot", "", "snapshot file to seed from")
	flag.StringVar(&namespace, "namespace", "default", "namespace to seed")
	flag.IntVar(&workers, "workers", 8, "parallel object writers")
	flag.Parse()

	if snapshot == "" {
		log.Fatalf("-snapshot is required")
	}
	if workers < 1 {
		workers = 1
	}

	src, err := file.Load(snapshot)
	if err != nil {
		log.Fatalf("Error loading snapshot: %v", err)
	}
	snap, err := inventory.Capture(context.Background(), src)
	if err != nil {
		log.Fatalf("Error reading snapshot: %v", err)
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		log.Fatalf("Error building kubeconfig: %v", err)
	}
	k8sClient, err := client.New(config, client.Options{Scheme: scheme})
	if err != nil {
		log.Fatalf("Error creating client: %v", err)
	}

	var objects []client.Object
	for _, m := range snap.Modules {
		objects = append(objects, kube.ManifestFromModule(m, namespace))
	}
	for _, c := range snap.Components {
		objects = append(objects, kube.ObjectFromComponent(c, namespace))
	}

	fmt.Printf("Seeding %d modules and %d components into namespace %s\n", len(snap.Modules), len(snap.Components), namespace)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	jobs := make(chan client.Object)
	failures := make(chan error, len(objects))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for obj := range jobs {
				if err := seed(ctx, k8sClient, obj); err != nil {
					failures <- fmt.Errorf("%s: %w", obj.GetName(), err)
				}
			}
		}()
	}
	for _, obj := range objects {
		jobs <- obj
	}
	close(jobs)

	wg.Wait()
	close(failures)

	failed := 0
	for err := range failures {
		failed++
		fmt.Printf("Error seeding %v\n", err)
	}
	fmt.Printf("Seeded %d of %d objects in %v\n", len(objects)-failed, len(objects), time.Since(start))
	if failed > 0 {
		os.Exit(1)
	}
}

// seed creates or updates obj, then writes the status it carried, since the
// API server drops status on create.
func seed(ctx context.Context, c client.Client, obj client.Object) error {
	desired := obj.DeepCopyObject().(client.Object)

	if err := c.Create(ctx, obj); err != nil {
		if !apierrors.IsAlreadyExists(err) {
			return err
		}
		existing := desired.DeepCopyObject().(client.Object)
		if err := c.Get(ctx, client.ObjectKeyFromObject(desired), existing); err != nil {
			return err
		}
		obj = desired.DeepCopyObject().(client.Object)
		obj.SetResourceVersion(existing.GetResourceVersion())
		if err := c.Update(ctx, obj); err != nil {
			return err
		}
	}

	switch d := desired.(type) {
	case *binderyv1alpha1.ModuleManifest:
		mm := obj.(*binderyv1alpha1.ModuleManifest)
		mm.Status = d.Status
		mm.Status.ObservedGeneration = mm.Generation
	case *binderyv1alpha1.ComponentDescriptor:
		obj.(*binderyv1alpha1.ComponentDescriptor).Status = d.Status
	}
	return c.Status().Update(ctx, obj)
}
