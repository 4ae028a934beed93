package main

import (
	"fmt"
	"os"

	"github.com/theonetwoone/CYBER-repinning/models/common"
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

	context := common.NewContext()
	verifier := repin.NewVerifier(context)

	fmt.Println("Running full pin inventory scan. This can take a while.")
	report, err := verifier.FullScan()
	dieOnError(err)
	fmt.Printf("Inventory: %d pins, %d unique CIDs, %d duplicated, %d deletable\n",
		report.TotalPins, report.UniqueCIDs,
		report.DuplicateCIDs, report.TotalDuplicates)
	if report.DuplicateCIDs == 0 {
		fmt.Println("Nothing to clean up.")
		return
	}

	result, err := repin.NewCleaner(context, opts.DryRun).Run(report)
	dieOnError(err)

	verb := "Deleted"
	if result.DryRun {
		verb = "Would delete"
	}
	fmt.Printf("%s %d duplicate pins, kept %d survivors, %d deletions failed\n",
		verb, result.DeletedCount, result.KeptCount, result.FailedDeletions)
	fmt.Printf("Estimated monthly savings: $%.2f\n", result.EstimatedMonthlySavings())
	for _, cidStr := range result.LostCIDs {
		fmt.Fprintf(os.Stderr, "WARNING: %s has no surviving active pin\n", cidStr)
	}
	if len(result.LostCIDs) > 0 {
		os.Exit(1)
	}
}

func dieOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func printHelp() {
	message := `
dupe_cleanup finds CIDs pinned more than once on the configured
pinning service and deletes the redundant instances, keeping the
healthiest pin of each. It always runs a full inventory scan first;
the bounded scan used by verify_pins is not safe to delete against.
Use -dry-run to see what would happen without deleting anything.
`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
