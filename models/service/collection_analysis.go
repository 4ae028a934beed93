package service

// CollectionAnalysis classifies how a collection's media is laid out
// on IPFS. It is derived from the current record set on demand and
// never persisted.
type CollectionAnalysis struct {
	// Type is one of the constants.CollectionType values.
	Type string `json:"type"`

	TotalAssets    int `json:"total_assets"`
	UniqueBaseCIDs int `json:"unique_base_cids"`

	// DuplicatedCIDs counts CIDs shared by more than one asset in a
	// mixed collection.
	DuplicatedCIDs int `json:"duplicated_cids"`

	// AssetsPerCID maps each base CID to the number of assets that
	// reference it.
	AssetsPerCID map[string]int `json:"assets_per_cid"`

	// LargestDirectory is the asset count of the most-referenced base
	// CID. Meaningful for directory collections.
	LargestDirectory int `json:"largest_directory"`

	// AvgFilesPerDirectory is TotalAssets / UniqueBaseCIDs for
	// directory collections.
	AvgFilesPerDirectory float64 `json:"avg_files_per_directory"`
}

// PinSavings is the number of pin calls avoided by pinning the
// minimal CID set instead of one pin per asset.
func (analysis *CollectionAnalysis) PinSavings() int {
	savings := analysis.TotalAssets - analysis.UniqueBaseCIDs
	if savings < 0 {
		return 0
	}
	return savings
}
