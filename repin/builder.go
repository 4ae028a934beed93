package repin

import (
	"github.com/theonetwoone/CYBER-repinning/arc"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/algorand"
	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/models/service"
)

// Builder turns a creator's on-chain assets into a collection of asset
// records, resolving ARC-19 metadata down to the media it points at.
type Builder struct {
	Context        *common.Context
	CreatorAddress string
}

func NewBuilder(context *common.Context, creatorAddress string) *Builder {
	return &Builder{
		Context:        context,
		CreatorAddress: creatorAddress,
	}
}

// Run fetches every asset the creator made and builds one record per
// asset that yields a CID. Assets with no extractable CID are dropped,
// not kept as failures. Prior records, when supplied, carry their
// statuses forward by asset id.
func (b *Builder) Run(prior *service.Collection) (*service.Collection, error) {
	assets, err := b.Context.IndexerClient.AllCreatedAssets(b.CreatorAddress)
	if err != nil {
		return nil, err
	}
	collection := service.NewCollection(b.CreatorAddress)
	for _, asset := range assets {
		if asset.Deleted {
			continue
		}
		record := b.buildRecord(asset)
		if record == nil {
			continue
		}
		collection.Add(record)
	}
	collection.MergePrior(prior)
	b.Context.Logger.Infof("Built collection for %s: %d of %d assets carry a CID",
		b.CreatorAddress, collection.Size(), len(assets))
	return collection, nil
}

func (b *Builder) buildRecord(asset *algorand.Asset) *service.AssetRecord {
	extractedCID, standard := arc.Extract(&asset.Params)
	if extractedCID == "" {
		return nil
	}
	name := asset.Params.Name
	if name == "" {
		name = "Unknown"
	}
	record := service.NewAssetRecord(asset.ID(), name, asset.Params.URL, standard)
	switch standard {
	case constants.ArcStandard19:
		if asset.Params.MetadataMimeType != "" {
			record.MetadataCID = extractedCID
			b.resolveMedia(record)
		} else {
			// No mime type means the template CID points straight at
			// the media. Nothing to fetch.
			record.ImageCID = extractedCID
		}
	case constants.ArcStandard69, constants.ArcStandardIPFS:
		record.MetadataCID = extractedCID
		record.ImageCID = extractedCID
	default:
		record.ImageCID = extractedCID
	}
	if record.FullIPFSURL == "" && record.ImageCID != "" {
		record.FullIPFSURL = "ipfs://" + record.ImageCID
	}
	return record
}

// resolveMedia fetches the asset's metadata JSON to find the media it
// references. The Redis cache, when configured, spares the refetch on
// rebuilds. When the metadata holds no ipfs media, or no gateway could
// serve it, the metadata CID doubles as the image CID so the asset
// still gets pinned.
func (b *Builder) resolveMedia(record *service.AssetRecord) {
	mediaURL, cached := b.cachedMediaURL(record)
	if !cached {
		var body []byte
		mediaURL, body = b.Context.GatewayClient.ResolveMediaURL(record.MetadataCID)
		if body != nil {
			b.saveMediaURL(record, mediaURL)
		}
	}
	if mediaURL == "" {
		record.ImageCID = record.MetadataCID
		return
	}
	baseCID, filePath := arc.SplitIPFSURL(mediaURL)
	record.ImageCID = baseCID
	record.ImageFilePath = filePath
	record.FullIPFSURL = mediaURL
}

func (b *Builder) cachedMediaURL(record *service.AssetRecord) (string, bool) {
	if b.Context.RedisClient == nil {
		return "", false
	}
	return b.Context.RedisClient.CachedMediaURL(
		b.CreatorAddress, record.AssetID, record.MetadataCID)
}

func (b *Builder) saveMediaURL(record *service.AssetRecord, mediaURL string) {
	if b.Context.RedisClient == nil {
		return
	}
	err := b.Context.RedisClient.SaveMediaURL(
		b.CreatorAddress, record.AssetID, record.MetadataCID, mediaURL)
	if err != nil {
		b.Context.Logger.Warningf("Could not cache media URL for asset %s: %v",
			record.AssetID, err)
	}
}
