package constants

const (
	ArcStandard19   = "arc19"
	ArcStandard69   = "arc69"
	ArcStandardIPFS = "standard_ipfs"
	ArcImageOnly    = "image_only"
	ArcCSVProvided  = "csv_provided"
	ArcUnknown      = "unknown"
	ArcError        = "error"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	PinStatusPinned     = "pinned"
	PinStatusQueued     = "queued"
	PinStatusPinning    = "pinning"
	PinStatusProcessing = "processing"
	PinStatusFailed     = "failed"
	PinStatusUnknown    = "unknown"

	CollectionTypeDirectory  = "directory_based"
	CollectionTypeIndividual = "individual_cids"
	CollectionTypeMixed      = "mixed"
	CollectionTypeNone       = "none"

	StrategyAuto            = "auto"
	StrategyBaseCIDsOnly    = "base_cids_only"
	StrategyIndividualFiles = "individual_files"
	StrategyUniqueOnly      = "unique_only"
	StrategyAllIndividual   = "all_individual"

	Svc4everland   = "4everland"
	SvcFilebase    = "filebase"
	SvcInfura      = "infura"
	SvcNFTStorage  = "nft.storage"
	SvcPinata      = "pinata"
	SvcWeb3Storage = "web3.storage"

	RiskHigh        = "high_risk"
	RiskLow         = "low_risk"
	RiskMedium      = "medium_risk"
	RiskUnreachable = "unreachable"
)

// TestPinCID is a small, well-known file used to validate pinning
// credentials with a single cheap round trip.
const TestPinCID = "QmYjtig7VJQ6XsnUjqqJvj7QaMcCAwtrgNdahSiFofrE7o"

// ActivePinStatuses are the remote pin states that count as "pinned"
// for verification purposes. A pin that is queued or in flight still
// exists on the service and must not be re-pinned or reported missing.
var ActivePinStatuses = []string{
	PinStatusPinned,
	PinStatusQueued,
	PinStatusPinning,
	PinStatusProcessing,
}

// PinStatusPriority orders remote pin states from most to least
// desirable. Duplicate cleanup keeps the instance with the lowest
// index here.
var PinStatusPriority = []string{
	PinStatusPinned,
	PinStatusQueued,
	PinStatusPinning,
	PinStatusProcessing,
	PinStatusFailed,
}

var ArcStandards = []string{
	ArcStandard19,
	ArcStandard69,
	ArcStandardIPFS,
	ArcImageOnly,
	ArcCSVProvided,
	ArcUnknown,
	ArcError,
}

var AssetStatuses = []string{
	StatusPending,
	StatusCompleted,
	StatusFailed,
}

var PinningStrategies = []string{
	StrategyAuto,
	StrategyBaseCIDsOnly,
	StrategyIndividualFiles,
	StrategyUniqueOnly,
	StrategyAllIndividual,
}

var PinningServices = []string{
	Svc4everland,
	SvcFilebase,
	SvcInfura,
	SvcNFTStorage,
	SvcPinata,
	SvcWeb3Storage,
}

// PublicGateways are reliable public IPFS gateways used for metadata
// resolution and availability probes, in preference order.
var PublicGateways = []string{
	"https://ipfs.io/ipfs/",
	"https://gateway.ipfs.io/ipfs/",
	"https://cloudflare-ipfs.com/ipfs/",
}

// RiskProbeGateways is the wider gateway set used by the gateway risk
// prober. Includes the old.web3.storage gateways so we can detect CIDs
// that exist nowhere else.
var RiskProbeGateways = []string{
	"https://ipfs.io/ipfs/",
	"https://gateway.ipfs.io/ipfs/",
	"https://dweb.link/ipfs/",
	"https://cloudflare-ipfs.com/ipfs/",
	"https://cf-ipfs.com/ipfs/",
	"https://gateway.pinata.cloud/ipfs/",
	"https://infura-ipfs.io/ipfs/",
	"https://4everland.io/ipfs/",
	"https://nftstorage.link/ipfs/",
	"https://w3s.link/ipfs/",
}

// ShuttingDownGateways are gateways scheduled for shutdown. Content
// reachable only through these is considered at high risk of loss.
var ShuttingDownGateways = []string{
	"https://nftstorage.link/ipfs/",
	"https://w3s.link/ipfs/",
}
