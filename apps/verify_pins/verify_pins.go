package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/theonetwoone/CYBER-repinning/arc"
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

	context := common.NewContext()
	verifier := repin.NewVerifier(context)

	if opts.CIDFile != "" {
		cids, err := readCIDFile(opts.CIDFile)
		dieOnError(err)
		result, err := verifier.VerifyCIDs(cids)
		dieOnError(err)
		printResult(result)
		return
	}

	if opts.CSVIn == "" {
		fmt.Fprintln(os.Stderr, "Either -csv-in or -cid-file is required.")
		cli.PrintDefaults()
		os.Exit(1)
	}
	collection, err := service.LoadCSV(opts.CSVIn, opts.CreatorAddr)
	dieOnError(err)

	result, err := verifier.Run(collection)
	dieOnError(err)
	printResult(result)
	fmt.Printf("Assets: %d confirmed completed, %d reverted to pending\n",
		result.AssetsCompleted, result.AssetsReverted)
	counts := collection.StatusCounts()
	fmt.Printf("Collection now: %d pending, %d completed, %d failed\n",
		counts[constants.StatusPending], counts[constants.StatusCompleted],
		counts[constants.StatusFailed])

	if opts.CSVOut != "" {
		dieOnError(collection.SaveCSV(opts.CSVOut))
		fmt.Println("Saved updated collection to", opts.CSVOut)
	}
}

func printResult(result *repin.VerificationResult) {
	fmt.Printf("Verified %d of %d CIDs (%d pages scanned, %d fallback lookups)\n",
		result.VerifiedCount, result.TotalTargets,
		result.PagesScanned, result.FallbacksUsed)
	for _, detail := range result.Details {
		if !detail.Pinned {
			fmt.Printf("  NOT PINNED: %s (status %q)\n", detail.CID, detail.Status)
		}
	}
	report := result.DuplicateReport
	if report != nil && report.DuplicateCIDs > 0 {
		fmt.Printf("Found %d duplicated CIDs (partial scan; run dupe_cleanup for the full picture)\n",
			report.DuplicateCIDs)
	}
}

// readCIDFile loads one CID per line, skipping blanks and anything
// that does not parse as a CID.
func readCIDFile(pathToFile string) ([]string, error) {
	file, err := os.Open(pathToFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cids := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !arc.ValidCID(line) {
			fmt.Fprintf(os.Stderr, "Skipping invalid CID: %s\n", line)
			continue
		}
		cids = append(cids, line)
	}
	return cids, scanner.Err()
}

func dieOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func printHelp() {
	message := `
verify_pins checks which of a collection's CIDs are actually pinned on
the configured pinning service, using a memory-bounded streaming scan
of the remote pin inventory. With -csv-in it also reconciles each
asset's status: verified assets become completed, everything else goes
back to pending. With -cid-file it verifies a raw CID list instead.
`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
