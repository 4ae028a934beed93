package service

import (
	"encoding/json"

	"github.com/theonetwoone/CYBER-repinning/constants"
)

type AssetRecord struct {
	// AssetID is the on-chain asset index, as a string. This is the
	// stable identity key for merging across runs.
	AssetID string `json:"asset_id"`

	// AssetName is the on-chain asset name.
	AssetName string `json:"asset_name"`

	// AssetURL is the raw on-chain URL field, kept for diagnostics.
	AssetURL string `json:"asset_url"`

	// ArcStandard is the detected metadata convention. One of the
	// constants.ArcStandards values.
	ArcStandard string `json:"arc_standard"`

	// MetadataCID is the CID of the asset's metadata JSON, if the
	// standard has one. Empty for image-only assets.
	MetadataCID string `json:"metadata_cid"`

	// ImageCID is the CID of the asset's media. For directory-based
	// collections this is the base directory CID.
	ImageCID string `json:"image_cid"`

	// ImageFilePath is the file path inside a directory CID, for
	// directory-based collections. Empty otherwise.
	ImageFilePath string `json:"image_file_path"`

	// FullIPFSURL is the complete ipfs:// URL of the media, including
	// any directory path.
	FullIPFSURL string `json:"full_ipfs_url"`

	// Status is one of pending, completed, failed.
	Status string `json:"status"`

	// RepinCID is the CID actually confirmed pinned for this asset.
	// Set only when Status is completed.
	RepinCID string `json:"repin_cid"`

	// ErrorMessage describes why the last pin attempt failed, or
	// carries the success note for completed assets.
	ErrorMessage string `json:"error_message"`
}

func NewAssetRecord(assetID, assetName, assetURL, arcStandard string) *AssetRecord {
	return &AssetRecord{
		AssetID:     assetID,
		AssetName:   assetName,
		AssetURL:    assetURL,
		ArcStandard: arcStandard,
		Status:      constants.StatusPending,
	}
}

// RequiresMetadataPin returns true if this asset needs its metadata
// CID pinned separately from its image CID.
func (record *AssetRecord) RequiresMetadataPin() bool {
	return record.MetadataCID != "" && record.MetadataCID != record.ImageCID
}

func (record *AssetRecord) IsPending() bool {
	return record.Status == constants.StatusPending
}

func (record *AssetRecord) MarkCompleted(message string) {
	record.Status = constants.StatusCompleted
	record.RepinCID = record.ImageCID
	record.ErrorMessage = message
}

func (record *AssetRecord) MarkFailed(message string) {
	record.Status = constants.StatusFailed
	record.ErrorMessage = message
}

func AssetRecordFromJSON(jsonData string) (*AssetRecord, error) {
	record := &AssetRecord{}
	err := json.Unmarshal([]byte(jsonData), record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (record *AssetRecord) ToJSON() (string, error) {
	bytes, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
