package algorand

import (
	"encoding/json"
	"strconv"
)

// Asset is one asset record returned by the Algorand indexer's
// created-assets endpoint. Only the fields the repinning pipeline
// needs are mapped; the indexer returns many more.
type Asset struct {
	Index   int64       `json:"index"`
	Deleted bool        `json:"deleted"`
	Params  AssetParams `json:"params"`
}

// AssetParams holds the on-chain parameters of an asset. The four
// address fields matter because ARC-19 templates may reference any of
// them as the CID carrier.
type AssetParams struct {
	Clawback         string `json:"clawback,omitempty"`
	Creator          string `json:"creator,omitempty"`
	Freeze           string `json:"freeze,omitempty"`
	Manager          string `json:"manager,omitempty"`
	MetadataMimeType string `json:"metadata-mime-type,omitempty"`
	Name             string `json:"name,omitempty"`
	Reserve          string `json:"reserve,omitempty"`
	UnitName         string `json:"unit-name,omitempty"`
	URL              string `json:"url,omitempty"`
}

// AssetList is one page of the indexer's created-assets response.
// NextToken is empty on the last page.
type AssetList struct {
	Assets    []*Asset `json:"assets"`
	NextToken string   `json:"next-token"`
}

// ID returns the asset index as a string, which is how asset identity
// is tracked everywhere outside the indexer API.
func (a *Asset) ID() string {
	return strconv.FormatInt(a.Index, 10)
}

// AddressField returns the value of the named address field. ARC-19
// templates name the freeze field "freezer", so both spellings map to
// the same value. Unknown names return "".
func (p *AssetParams) AddressField(name string) string {
	switch name {
	case "reserve":
		return p.Reserve
	case "manager":
		return p.Manager
	case "freeze", "freezer":
		return p.Freeze
	case "clawback":
		return p.Clawback
	}
	return ""
}

func AssetFromJSON(jsonData string) (*Asset, error) {
	asset := &Asset{}
	err := json.Unmarshal([]byte(jsonData), asset)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (a *Asset) ToJSON() (string, error) {
	bytes, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
