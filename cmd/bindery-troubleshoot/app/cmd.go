package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/file"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/kube"
)

// Scheme knows the core types and the bindery.platform API.
var Scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(Scheme))
	utilruntime.Must(binderyv1alpha1.AddToScheme(Scheme))
}

// ClientFactory connects to a cluster. It returns the client and the
// namespace to use when none was given.
type ClientFactory func(kubeconfig, namespace string) (client.Client, string, error)

type Options struct {
	configFile string
	kubeconfig string
	namespace  string
	selector   string
	output     string
	verbose    bool

	connect ClientFactory
	cl      client.Client
}

// New builds the root command. Tests pass a factory to avoid a real cluster.
func New(factories ...ClientFactory) *cobra.Command {
	opts := &Options{connect: DefaultClientFactory}
	if len(factories) > 0 && factories[0] != nil {
		opts.connect = factories[0]
	}

	maincmd := &cobra.Command{
		Use:   "bindery-troubleshoot <options> <cmd> <args>",
		Short: "diagnose why modules and components are not active",
		Long: `
This command inspects the module and component inventory of a bindery
runtime, either from the cluster or from a snapshot file, and explains
why modules are not active and which missing services block components.
`,
		SilenceUsage:      true,
		TraverseChildren:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return opts.complete(cmd) },
	}

	flags := maincmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default .bindery-troubleshoot.yaml)")
	flags.StringVar(&opts.kubeconfig, "kubeconfig", "", "path to the kubeconfig file")
	flags.StringVarP(&opts.namespace, "namespace", "n", "", "namespace holding the inventory")
	flags.StringVarP(&opts.selector, "selector", "l", "", "label selector restricting the inventory")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format (text, yaml, json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	maincmd.AddCommand(NewDiagnose(opts))
	maincmd.AddCommand(NewSnapshot(opts))
	maincmd.AddCommand(NewStartInactive(opts))
	return maincmd
}

// complete fills every flag the user did not set from the config file and
// environment, then installs the logger.
func (o *Options) complete(cmd *cobra.Command) error {
	cfg, err := LoadConfig(o.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("kubeconfig") {
		o.kubeconfig = cfg.Kubeconfig
	}
	if !flags.Changed("namespace") {
		o.namespace = cfg.Namespace
	}
	if !flags.Changed("selector") {
		o.selector = cfg.Selector
	}
	if !flags.Changed("output") && cfg.Output != "" {
		o.output = cfg.Output
	}
	if !flags.Changed("verbose") {
		o.verbose = cfg.Verbose
	}

	logger := zap.New(zap.UseDevMode(o.verbose), zap.WriteTo(cmd.ErrOrStderr()))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(log.IntoContext(ctx, logger))
	return nil
}

func (o *Options) labelSelector() (*metav1.LabelSelector, error) {
	if o.selector == "" {
		return nil, nil
	}
	sel, err := metav1.ParseToLabelSelector(o.selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", o.selector, err)
	}
	return sel, nil
}

// client connects once and caches the result.
func (o *Options) client() (client.Client, error) {
	if o.cl != nil {
		return o.cl, nil
	}
	cl, ns, err := o.connect(o.kubeconfig, o.namespace)
	if err != nil {
		return nil, fmt.Errorf("connect to cluster: %w", err)
	}
	o.cl = cl
	o.namespace = ns
	return cl, nil
}

func (o *Options) clusterSource() (*kube.Source, error) {
	cl, err := o.client()
	if err != nil {
		return nil, err
	}
	sel, err := o.labelSelector()
	if err != nil {
		return nil, err
	}
	return kube.NewSource(cl, o.namespace, sel)
}

// source reads the snapshot file when given, the cluster otherwise.
func (o *Options) source(snapshot string) (inventory.Source, error) {
	if snapshot != "" {
		src, err := file.Load(snapshot)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	src, err := o.clusterSource()
	if err != nil {
		return nil, err
	}
	return src, nil
}

// DefaultClientFactory resolves the kubeconfig the way kubectl does.
func DefaultClientFactory(kubeconfig, namespace string) (client.Client, string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = kubeconfig
	overrides := &clientcmd.ConfigOverrides{}
	if namespace != "" {
		overrides.Context.Namespace = namespace
	}
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	cfg, err := loader.ClientConfig()
	if err != nil {
		return nil, "", err
	}
	ns, _, err := loader.Namespace()
	if err != nil {
		return nil, "", err
	}
	cl, err := client.New(cfg, client.Options{Scheme: Scheme})
	if err != nil {
		return nil, "", err
	}
	return cl, ns, nil
}
