package cli

import (
	"flag"
	"time"

	"github.com/theonetwoone/CYBER-repinning/constants"
)

type Options struct {
	CIDFile      string
	CreatorAddr  string
	CSVIn        string
	CSVOut       string
	DryRun       bool
	GatewayCount int
	NumWorkers   int
	PrintHelp    bool
	ProbeTimeout time.Duration
	Refresh      bool
	SampleSize   int
	Strategy     string
}

var opts = Options{}
var defaultWorkers = 5
var defaultGateways = 5
var defaultProbeTimeout = 10 * time.Second

var EnvMessage = `This requires the following environment vars:

REPIN_CONFIG_DIR - Path to the directory containing the .env settings file.

REPIN_ENV - Name of the configuration to load. For example:
    test - Loads .env.test from REPIN_CONFIG_DIR
    prod - Loads .env.prod from REPIN_CONFIG_DIR

Pinning service and credentials are part of the settings file.
`

func Init() {
	flag.StringVar(&opts.CreatorAddr, "creator", "", "Algorand creator address whose assets make up the collection")
	flag.StringVar(&opts.CSVIn, "csv-in", "", "Load collection records from this CSV file instead of fetching from the indexer")
	flag.StringVar(&opts.CSVOut, "csv-out", "", "Write collection records (with updated statuses) to this CSV file")
	flag.StringVar(&opts.CIDFile, "cid-file", "", "File containing CIDs to process, one per line")
	flag.StringVar(&opts.Strategy, "strategy", constants.StrategyAuto, "Pinning strategy: auto, base_cids_only, individual_files, unique_only, all_individual")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Simulate deletions without touching remote pins")
	flag.BoolVar(&opts.Refresh, "refresh", false, "Drop cached gateway resolutions for the creator before rebuilding")
	flag.IntVar(&opts.NumWorkers, "workers", defaultWorkers, "Number of concurrent gateway probe workers")
	flag.IntVar(&opts.GatewayCount, "gateways", defaultGateways, "Number of gateways to probe per CID")
	flag.IntVar(&opts.SampleSize, "sample", 0, "Probe only a random sample of this many CIDs (0 = all)")
	flag.DurationVar(&opts.ProbeTimeout, "probe-timeout", defaultProbeTimeout, "Per-request timeout for gateway probes. Format examples: 500ms, 12s, 1m")
	flag.BoolVar(&opts.PrintHelp, "help", false, "Print help message")
}

func ParseOpts() Options {
	flag.Parse()
	return opts
}

func PrintDefaults() {
	flag.PrintDefaults()
}
