package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/theonetwoone/CYBER-repinning/arc"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/gatewayrisk"
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
	cids, err := collectCIDs(opts)
	dieOnError(err)
	if len(cids) == 0 {
		fmt.Fprintln(os.Stderr, "No CIDs to probe. Pass -csv-in, -cid-file, or nothing for the well-known set.")
		os.Exit(1)
	}
	if opts.SampleSize > 0 {
		cids = gatewayrisk.SampleCIDs(cids, opts.SampleSize)
	}

	prober := gatewayrisk.NewProber(context)
	if opts.NumWorkers > 0 {
		prober.Workers = opts.NumWorkers
	}
	if opts.GatewayCount > 0 && opts.GatewayCount < len(prober.Gateways) {
		prober.Gateways = prober.Gateways[:opts.GatewayCount]
	}

	fmt.Printf("Probing %d CIDs across %d gateways with %d workers\n",
		len(cids), len(prober.Gateways), prober.Workers)
	report := prober.Run(cids)

	fmt.Printf("\nRisk summary: %d high, %d medium, %d low, %d unreachable\n",
		report.RiskCounts[constants.RiskHigh],
		report.RiskCounts[constants.RiskMedium],
		report.RiskCounts[constants.RiskLow],
		report.RiskCounts[constants.RiskUnreachable])
	for _, result := range report.Results {
		if result.Risk == constants.RiskHigh || result.Risk == constants.RiskUnreachable {
			fmt.Printf("  %s: %s (available on %d gateways)\n",
				result.Risk, result.CID, len(result.Available))
		}
	}

	fmt.Println("\nGateway performance:")
	for _, stats := range report.Gateways {
		fmt.Printf("  %-45s %3.0f%% success, avg %s\n",
			stats.Gateway, stats.SuccessRate*100, stats.AvgResponseTime)
	}
}

// collectCIDs reads the probe targets from the CSV collection, a CID
// file, or falls back to the well-known probe set.
func collectCIDs(opts cli.Options) ([]string, error) {
	if opts.CSVIn != "" {
		collection, err := service.LoadCSV(opts.CSVIn, opts.CreatorAddr)
		if err != nil {
			return nil, err
		}
		return repin.CollectTargetCIDs(collection), nil
	}
	if opts.CIDFile != "" {
		return readCIDFile(opts.CIDFile)
	}
	return gatewayrisk.WellKnownCIDs, nil
}

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
gateway_risk probes a set of CIDs across public IPFS gateways with
HEAD requests and classifies how close each CID is to vanishing:
content reachable only through gateways that are shutting down is
flagged high risk. It also reports per-gateway success rates and
response times. With no input it probes a small well-known CID set,
which measures gateway health itself.
`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
