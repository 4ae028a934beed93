package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/util"
)

// csvColumns is the export column order. Import accepts any file
// that includes at least asset_id and image_cid.
var csvColumns = []string{
	"asset_id",
	"asset_name",
	"arc_standard",
	"metadata_cid",
	"image_cid",
	"status",
	"repin_cid",
	"error_message",
	"image_file_path",
	"full_ipfs_url",
	"asset_url",
}

// Collection owns the working set of asset records for one creator
// address. Records keep insertion order; lookups go through an index
// keyed by asset id.
type Collection struct {
	CreatorAddress string         `json:"creator_address"`
	Records        []*AssetRecord `json:"records"`

	index map[string]*AssetRecord
}

func NewCollection(creatorAddress string) *Collection {
	return &Collection{
		CreatorAddress: creatorAddress,
		Records:        make([]*AssetRecord, 0),
		index:          make(map[string]*AssetRecord),
	}
}

// Add appends a record, replacing any prior record with the same
// asset id in place.
func (c *Collection) Add(record *AssetRecord) {
	if existing, ok := c.index[record.AssetID]; ok {
		for i, r := range c.Records {
			if r == existing {
				c.Records[i] = record
				break
			}
		}
		c.index[record.AssetID] = record
		return
	}
	c.Records = append(c.Records, record)
	c.index[record.AssetID] = record
}

func (c *Collection) Find(assetID string) *AssetRecord {
	return c.index[assetID]
}

func (c *Collection) Size() int {
	return len(c.Records)
}

// Pending returns the records still awaiting a pin attempt.
func (c *Collection) Pending() []*AssetRecord {
	pending := make([]*AssetRecord, 0)
	for _, record := range c.Records {
		if record.IsPending() {
			pending = append(pending, record)
		}
	}
	return pending
}

func (c *Collection) StatusCounts() map[string]int {
	counts := make(map[string]int)
	for _, record := range c.Records {
		counts[record.Status]++
	}
	return counts
}

// UniqueImageCIDs returns the distinct non-empty image CIDs in
// first-seen order.
func (c *Collection) UniqueImageCIDs() []string {
	cids := make([]string, 0, len(c.Records))
	for _, record := range c.Records {
		if record.ImageCID != "" {
			cids = append(cids, record.ImageCID)
		}
	}
	return util.UniqueStrings(cids)
}

// UniqueMetadataCIDs returns the distinct metadata CIDs that need
// their own pin. CIDs equal to the record's own image CID are
// excluded since pinning them again buys nothing.
func (c *Collection) UniqueMetadataCIDs() []string {
	cids := make([]string, 0, len(c.Records))
	for _, record := range c.Records {
		if record.RequiresMetadataPin() {
			cids = append(cids, record.MetadataCID)
		}
	}
	return util.UniqueStrings(cids)
}

// MergePrior carries status, repin CID and error message forward from
// a prior run's records, matched by asset id. Records without a prior
// match keep their freshly initialized state.
func (c *Collection) MergePrior(prior *Collection) {
	if prior == nil {
		return
	}
	for _, record := range c.Records {
		priorRecord := prior.Find(record.AssetID)
		if priorRecord == nil {
			continue
		}
		record.Status = priorRecord.Status
		record.RepinCID = priorRecord.RepinCID
		record.ErrorMessage = priorRecord.ErrorMessage
	}
}

func (c *Collection) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CollectionFromJSON(jsonData string) (*Collection, error) {
	c := &Collection{}
	err := json.Unmarshal([]byte(jsonData), c)
	if err != nil {
		return nil, err
	}
	c.index = make(map[string]*AssetRecord, len(c.Records))
	for _, record := range c.Records {
		c.index[record.AssetID] = record
	}
	return c, nil
}

// SaveCSV writes the collection in the tabular export schema.
func (c *Collection) SaveCSV(pathToFile string) error {
	file, err := os.Create(pathToFile)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	if err = writer.Write(csvColumns); err != nil {
		return err
	}
	for _, record := range c.Records {
		row := []string{
			record.AssetID,
			record.AssetName,
			record.ArcStandard,
			record.MetadataCID,
			record.ImageCID,
			record.Status,
			record.RepinCID,
			record.ErrorMessage,
			record.ImageFilePath,
			record.FullIPFSURL,
			record.AssetURL,
		}
		if err = writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// LoadCSV reads a collection from the tabular schema. Columns are
// matched by header name, so files carrying only the minimal columns
// import fine. Missing status defaults to pending.
func LoadCSV(pathToFile, creatorAddress string) (*Collection, error) {
	file, err := os.Open(pathToFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %v", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	if _, ok := columns["asset_id"]; !ok {
		return nil, fmt.Errorf("CSV file %s has no asset_id column", pathToFile)
	}
	if _, ok := columns["image_cid"]; !ok {
		return nil, fmt.Errorf("CSV file %s has no image_cid column", pathToFile)
	}
	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	c := NewCollection(creatorAddress)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		record := &AssetRecord{
			AssetID:       cell(row, "asset_id"),
			AssetName:     cell(row, "asset_name"),
			AssetURL:      cell(row, "asset_url"),
			ArcStandard:   cell(row, "arc_standard"),
			MetadataCID:   cell(row, "metadata_cid"),
			ImageCID:      cell(row, "image_cid"),
			ImageFilePath: cell(row, "image_file_path"),
			FullIPFSURL:   cell(row, "full_ipfs_url"),
			Status:        cell(row, "status"),
			RepinCID:      cell(row, "repin_cid"),
			ErrorMessage:  cell(row, "error_message"),
		}
		if record.AssetID == "" {
			continue
		}
		if record.ArcStandard == "" {
			record.ArcStandard = constants.ArcCSVProvided
		}
		if record.Status == "" {
			record.Status = constants.StatusPending
		}
		c.Add(record)
	}
	return c, nil
}
