package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/models/service"
	"github.com/theonetwoone/CYBER-repinning/repin"
	"github.com/theonetwoone/CYBER-repinning/util/cli"
)

func main() {
	cli.Init()
	opts := cli.ParseOpts()
	if opts.PrintHelp {
		printHelp()
		cli.PrintDefaults()
		os.Exit(0)
	}
	if opts.CreatorAddr == "" && opts.CSVIn == "" {
		fmt.Fprintln(os.Stderr, "Either -creator or -csv-in is required.")
		cli.PrintDefaults()
		os.Exit(1)
	}

	context := common.NewContext()

	var prior *service.Collection
	var collection *service.Collection
	var err error
	if opts.CSVIn != "" {
		prior, err = service.LoadCSV(opts.CSVIn, opts.CreatorAddr)
		dieOnError(err)
	}
	if opts.CreatorAddr != "" {
		if opts.Refresh && context.RedisClient != nil {
			dieOnError(context.RedisClient.DeleteCollectionCache(opts.CreatorAddr))
		}
		collection, err = repin.NewBuilder(context, opts.CreatorAddr).Run(prior)
		dieOnError(err)
	} else {
		collection = prior
	}

	analyzer := repin.NewAnalyzer(context)
	analysis := analyzer.Analyze(collection.Records)
	fmt.Printf("Collection: %d assets, %d unique base CIDs (%s)\n",
		analysis.TotalAssets, analysis.UniqueBaseCIDs, analysis.Type)
	if analysis.PinSavings() > 0 {
		fmt.Printf("Minimal pin set saves %d redundant pins\n", analysis.PinSavings())
	}
	if estimate, err := analyzer.EstimateStorageBytes(collection.Records, opts.SampleSize); err == nil {
		fmt.Printf("Estimated collection storage: %.1f MB\n", float64(estimate)/(1024*1024))
	}

	summary, err := repin.NewMigrator(context, opts.Strategy).Run(collection)
	dieOnError(err)
	fmt.Printf("Pins: %d attempted, %d succeeded, %d failed\n",
		summary.PinsAttempted, summary.PinsSucceeded, summary.PinsFailed)
	fmt.Printf("Assets: %d completed, %d failed\n",
		summary.AssetsCompleted, summary.AssetsFailed)
	counts := collection.StatusCounts()
	fmt.Printf("Collection now: %d pending, %d completed, %d failed\n",
		counts[constants.StatusPending], counts[constants.StatusCompleted],
		counts[constants.StatusFailed])

	outFile := opts.CSVOut
	if outFile == "" {
		outFile = filepath.Join(context.Config.DataDir, collection.CreatorAddress+".csv")
	}
	dieOnError(collection.SaveCSV(outFile))
	fmt.Println("Saved collection to", outFile)
}

func dieOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func printHelp() {
	message := `
repin rebuilds an Algorand creator's NFT collection from the indexer,
works out the minimal set of IPFS CIDs that covers it, and pins them
on the configured pinning service. Pass -csv-in to carry statuses
forward from a previous run, and -csv-out to control where the updated
records land.
`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
