package algorand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonetwoone/CYBER-repinning/models/algorand"
)

const assetJSON = `{"index":1234567,"deleted":false,"params":{"name":"Skull #1","unit-name":"SKULL1","url":"ipfs://bafybeifcx4fof2cixdkh5qo7fq44m4myo5cl34ayqw4g7vjfqmur2kc76e","reserve":"CV3ZM4KVJS4CRMXEVMABNIHP3LCQAJJEYMYXF3NNBYJUW7C4CTVD7PUEOY"}}`

func TestAssetFromJSON(t *testing.T) {
	asset, err := algorand.AssetFromJSON(assetJSON)
	require.Nil(t, err)
	assert.EqualValues(t, 1234567, asset.Index)
	assert.Equal(t, "1234567", asset.ID())
	assert.Equal(t, "Skull #1", asset.Params.Name)
	assert.False(t, asset.Deleted)
}

func TestAddressField(t *testing.T) {
	params := &algorand.AssetParams{
		Reserve:  "RESERVE",
		Manager:  "MANAGER",
		Freeze:   "FREEZE",
		Clawback: "CLAWBACK",
	}
	assert.Equal(t, "RESERVE", params.AddressField("reserve"))
	assert.Equal(t, "MANAGER", params.AddressField("manager"))
	assert.Equal(t, "FREEZE", params.AddressField("freeze"))
	assert.Equal(t, "FREEZE", params.AddressField("freezer"))
	assert.Equal(t, "CLAWBACK", params.AddressField("clawback"))
	assert.Equal(t, "", params.AddressField("creator"))
}

func TestAssetToJSON(t *testing.T) {
	asset, err := algorand.AssetFromJSON(assetJSON)
	require.Nil(t, err)
	data, err := asset.ToJSON()
	require.Nil(t, err)
	roundTrip, err := algorand.AssetFromJSON(data)
	require.Nil(t, err)
	assert.Equal(t, asset, roundTrip)
}
