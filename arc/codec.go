package arc

import (
	"encoding/base32"
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multibase"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/algorand"
	"github.com/tidwall/gjson"
)

// templatePattern matches the ARC-19 URL template, e.g.
// template-ipfs://{ipfscid:1:raw:reserve:sha2-256}
var templatePattern = regexp.MustCompile(
	`^template-ipfs://\{ipfscid:(\d+):([\w-]+):(\w+):([\w-]+)\}`)

var codecBytes = map[string]byte{
	"raw":      0x55,
	"dag-pb":   0x70,
	"dag-cbor": 0x71,
}

// Extract determines which metadata convention an asset follows and
// pulls out its IPFS CID. First match wins. Malformed input never
// returns an error; it surfaces as an empty CID so one bad asset
// cannot abort a batch.
func Extract(params *algorand.AssetParams) (string, string) {
	if match := templatePattern.FindStringSubmatch(params.URL); match != nil {
		version, _ := strconv.Atoi(match[1])
		address := params.AddressField(match[3])
		return ReconstructCID(version, match[2], address), constants.ArcStandard19
	}

	// Image-only style: no mime type on chain and the URL is itself
	// CID content, even when template address fields exist.
	if params.MetadataMimeType == "" && (strings.HasPrefix(params.URL, "ipfs://") || LooksLikeCID(params.URL)) {
		return StripIPFSURL(params.URL), constants.ArcImageOnly
	}

	if cidStr, ok := extractArc69(params.Reserve); ok {
		return cidStr, constants.ArcStandard69
	}

	if strings.HasPrefix(params.URL, "ipfs://") {
		return StripIPFSURL(params.URL), constants.ArcStandardIPFS
	}

	// Last resort: the URL is CID-shaped without any scheme.
	if LooksLikeCID(params.URL) {
		return StripIPFSURL(params.URL), constants.ArcImageOnly
	}

	return "", constants.ArcUnknown
}

// ReconstructCID rebuilds the IPFS CID an ARC-19 asset encodes in one
// of its address fields. The address's 32-byte public key is the raw
// multihash digest. Returns empty string on any decode failure.
//
// Note the digest is always framed as sha2-256 (0x12 0x20) no matter
// which hash type the template declares, and the version 0 branch
// base58-encodes the bare digest without the multihash prefix. Both
// match longstanding observed behavior and stay as-is.
func ReconstructCID(version int, codec, address string) string {
	if len(address) < 10 {
		return ""
	}
	decoded, err := types.DecodeAddress(address)
	if err != nil {
		return reconstructFromRawBase32(version, codec, address)
	}
	digest := decoded[:]
	if version == 1 {
		codecByte, ok := codecBytes[codec]
		if !ok {
			codecByte = 0x55
		}
		cidBytes := append([]byte{0x01, codecByte, 0x12, 0x20}, digest...)
		encoded, err := multibase.Encode(multibase.Base32, cidBytes)
		if err != nil {
			return ""
		}
		return encoded
	}
	return base58.Encode(digest)
}

// reconstructFromRawBase32 handles address strings that fail strict
// Algorand decoding: pad and base32-decode them directly, checksum
// included, and build the CID from whatever comes out.
func reconstructFromRawBase32(version int, codec, address string) string {
	padded := address + strings.Repeat("=", (8-len(address)%8)%8)
	decoded, err := base32.StdEncoding.DecodeString(padded)
	if err != nil {
		return ""
	}
	if version == 1 {
		codecByte, ok := codecBytes[codec]
		if !ok || codec == "dag-cbor" {
			codecByte = 0x55
		}
		cidBytes := append([]byte{0x01, codecByte}, decoded...)
		return base58.Encode(cidBytes)
	}
	return base58.Encode(decoded)
}

// extractArc69 looks for base64-encoded JSON metadata in the reserve
// field. ARC-69 style assets carry image or name keys there.
func extractArc69(reserve string) (string, bool) {
	if reserve == "" {
		return "", false
	}
	// Reserve fields show up both padded and unpadded in the wild.
	// Normalize to unpadded before decoding so neither form is lost.
	decoded, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(reserve, "="))
	if err != nil {
		return "", false
	}
	if !gjson.ValidBytes(decoded) {
		return "", false
	}
	metadata := gjson.ParseBytes(decoded)
	if !metadata.Get("image").Exists() && !metadata.Get("name").Exists() {
		return "", false
	}
	image := metadata.Get("image").String()
	if strings.HasPrefix(image, "ipfs://") {
		return StripIPFSURL(image), true
	}
	return "", true
}

// StripIPFSURL reduces an ipfs:// URL to its bare CID, dropping the
// scheme, any #fragment and any path inside the directory.
func StripIPFSURL(url string) string {
	cidPart, _ := SplitIPFSURL(url)
	return cidPart
}

// SplitIPFSURL splits an ipfs:// URL into its base CID and the file
// path inside the directory, if any. Fragments are dropped. The path
// is what marks a collection as directory-based.
func SplitIPFSURL(url string) (string, string) {
	trimmed := strings.TrimPrefix(url, "ipfs://")
	trimmed = strings.SplitN(trimmed, "#", 2)[0]
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// LooksLikeCID reports whether a string is plausibly a bare CID.
func LooksLikeCID(s string) bool {
	if len(s) <= 20 {
		return false
	}
	return strings.HasPrefix(s, "Qm") ||
		strings.HasPrefix(s, "bafy") ||
		strings.HasPrefix(s, "bafk") ||
		strings.HasPrefix(s, "bafz")
}

// ValidCID strictly parses a CID string. Used to screen user-supplied
// CID lists before spending network calls on them.
func ValidCID(s string) bool {
	_, err := cid.Decode(s)
	return err == nil
}
