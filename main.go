package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"Addrforge/address"
	"Addrforge/config"
	"Addrforge/constants"
	"Addrforge/generator"
	"Addrforge/logger"
	"Addrforge/runtime"
	"Addrforge/utils"
)

var localLog *log.Logger

type options struct {
	configPath string
	network    string
	kind       string
	prefix     string
	backend    string
	workers    int
	debug      bool

	derive    string
	pubkey    string
	decode    string
	envelope  bool
	gen       int
	vanity    string
	seed      uint64
	indexPath string
	export    string
	importing string
	bench     bool

	set map[string]bool
}

func main() {
	localLog = logger.NewLogger()
	constants.Logger = localLog

	opts := setupFlags()

	fmt.Print("\033[H\033[2J\n")
	logger.Banner()

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		logger.LogError(localLog, constants.LogError, err, "Configuration error")
		os.Exit(1)
	}

	ctx, err := runtime.Initialize(localLog, cfg)
	if err != nil {
		logger.LogError(localLog, constants.LogError, err, "Initialization error")
		os.Exit(1)
	}
	defer ctx.Close()

	if constants.DebugMode {
		logger.LogStatus(localLog, constants.LogDebug, "Debug mode enabled")
	}
	runtime.LogSystemInfo(ctx)
	runtime.LogSettings(ctx)

	if err := run(ctx, opts); err != nil {
		logger.LogError(localLog, constants.LogError, err, "Run failed")
		ctx.Close()
		os.Exit(1)
	}
}

func run(ctx *runtime.AppContext, opts *options) error {
	if opts.bench {
		_, err := runtime.Benchmark(ctx, constants.BenchIterations)
		return err
	}

	if err := ctx.PrepareIndex(opts.export != "" || opts.importing != ""); err != nil {
		return err
	}

	var derived *address.Derivation
	var err error
	switch {
	case opts.derive != "":
		derived, err = runtime.DeriveFromSeed(ctx, opts.derive)
	case opts.pubkey != "":
		derived, err = runtime.DeriveFromPublicKey(ctx, opts.pubkey)
	}
	if err != nil {
		return err
	}
	if derived != nil {
		if opts.envelope {
			if err := runtime.WriteEnvelope(ctx, derived, constants.EnvelopeFile); err != nil {
				return err
			}
		}
		if ctx.Index != nil {
			if err := ctx.Index.Put(derived); err != nil {
				return err
			}
		}
	}

	if opts.decode != "" {
		if _, err := runtime.Decode(ctx, opts.decode); err != nil {
			return err
		}
	}

	if opts.importing != "" {
		if _, err := runtime.HandleImport(ctx, opts.importing); err != nil {
			return err
		}
	}

	if opts.gen > 0 {
		runCtx := runtime.SetupGracefulShutdown(ctx)
		genCfg := generator.Config{Vanity: opts.vanity}
		if opts.set["seed"] {
			genCfg.Seed = &opts.seed
		}
		_, err := runtime.Generate(runCtx, ctx, opts.gen, genCfg)
		runtime.Shutdown(ctx)
		if err != nil {
			return err
		}
	}

	if opts.export != "" {
		if _, err := runtime.HandleExport(ctx, opts.export); err != nil {
			return err
		}
	}

	return nil
}

// loadConfig reads the config file and applies any flag that was set on
// the command line over it.
func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = filepath.Join(utils.GetBaseDir(), constants.ConfigPath)
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	if opts.set["network"] {
		cfg.Network = opts.network
	}
	if opts.set["kind"] {
		cfg.Kind = opts.kind
	}
	if opts.set["prefix"] {
		cfg.Prefix = opts.prefix
	}
	if opts.set["backend"] {
		cfg.Backend = opts.backend
	}
	if opts.set["workers"] {
		cfg.Workers = opts.workers
	}
	if opts.set["index"] {
		cfg.IndexPath = opts.indexPath
	}
	if opts.debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func setupFlags() *options {
	opts := &options{set: make(map[string]bool)}

	flag.StringVar(&opts.configPath, "config", "", "Config file (default ~/"+constants.ConfigPath+")")
	flag.StringVar(&opts.network, "network", "testnet", "Network: testnet or mainnet")
	flag.StringVar(&opts.kind, "kind", "enterprise-key", "Address kind")
	flag.StringVar(&opts.prefix, "prefix", "", "Override the human-readable prefix")
	flag.StringVar(&opts.backend, "backend", "ed25519", "Key backend: ed25519 or schnorr")
	flag.IntVar(&opts.workers, "workers", constants.NumWorkers, "Generator workers")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug mode")

	flag.StringVar(&opts.derive, "derive", "", "Derive the address of a hex private seed")
	flag.StringVar(&opts.pubkey, "pubkey", "", "Derive the address of a hex public key")
	flag.StringVar(&opts.decode, "decode", "", "Decode an address")
	flag.BoolVar(&opts.envelope, "envelope", false, "Write the ed25519 key envelope to "+constants.EnvelopeFile)
	flag.IntVar(&opts.gen, "gen", 0, "Generate N fresh addresses")
	flag.StringVar(&opts.vanity, "vanity", "", "Only keep addresses whose data starts with this")
	flag.Uint64Var(&opts.seed, "seed", 0, "Deterministic generator seed")
	flag.StringVar(&opts.indexPath, "index", "", "Address index directory")
	flag.StringVar(&opts.export, "export", "", "Export the index to a gzip CSV file")
	flag.StringVar(&opts.importing, "import", "", "Import a gzip CSV file into the index")
	flag.BoolVar(&opts.bench, "bench", false, "Run benchmark and exit")

	flag.Usage = func() {
		logger.PrintSeparator(constants.LogStart)
		localLog.Printf("%s %s Addrforge Commands:", constants.LogStart, constants.EmojiAddress)
		localLog.Printf("%s --derive <hex>  : Address for a private seed", constants.LogStart)
		localLog.Printf("%s --pubkey <hex>  : Address for a public key", constants.LogStart)
		localLog.Printf("%s --decode <addr> : Decode an address", constants.LogStart)
		localLog.Printf("%s --gen N         : Generate N addresses (--vanity, --seed)", constants.LogStart)
		localLog.Printf("%s --index <dir>   : Store results in an index", constants.LogStart)
		localLog.Printf("%s --export <file> : Export the index", constants.LogStart)
		localLog.Printf("%s --import <file> : Import into the index", constants.LogStart)
		localLog.Printf("%s --bench         : Run Benchmark and exit", constants.LogStart)
		localLog.Printf("%s --network, --kind, --prefix, --backend, --config, --debug", constants.LogStart)
		logger.PrintSeparator(constants.LogStart)
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	return opts
}
