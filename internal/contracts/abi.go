package contracts

import (
	"strings"

	"github.com/diirlabs/station-service/pkg/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Hand-written ABI documents covering exactly the functions and events the
// orchestrator needs. The deployed contracts expose a much larger surface;
// none of it is called here.
const stationABIJSON = `[
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"name","type":"string"},{"name":"uri","type":"string"}],"outputs":[{"name":"tokenId","type":"uint256"}]},
	{"type":"function","name":"validateName","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"valid","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"balance","type":"uint256"}]},
	{"type":"function","name":"hasRole","stateMutability":"view","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"uri","type":"string"}]},
	{"type":"function","name":"stationOwner","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"owner","type":"address"}]},
	{"type":"event","name":"StationMinted","inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"owner","type":"address","indexed":true},{"name":"name","type":"string","indexed":false}]}
]`

const tipABIJSON = `[
	{"type":"function","name":"tip","stateMutability":"payable","inputs":[{"name":"to","type":"address"},{"name":"qty","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"calculateTips","stateMutability":"view","inputs":[{"name":"qty","type":"uint256"}],"outputs":[{"name":"tips","type":"uint256"}]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"event","name":"TipsTransferred","inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false},{"name":"fee","type":"uint256","indexed":false}]}
]`

var (
	stationABI = mustParseABI(stationABIJSON)
	tipABI     = mustParseABI(tipABIJSON)

	stationMintedID   = stationABI.Events["StationMinted"].ID
	tipsTransferredID = tipABI.Events["TipsTransferred"].ID
)

// Contract addresses are fixed per environment; there is no runtime discovery.
var stationAddresses = map[types.Environment]common.Address{
	types.EnvDevelopment: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
	types.EnvTest:        common.HexToAddress("0x8aE7e4e5dE13F2b2a4Dd2FDbB6c8cBA0a6A556dE"),
	types.EnvProduction:  common.HexToAddress("0x1De2A0a6E1C1D3e5cB1a5E2f9eC0702cD7F6F8A1"),
}

var tipAddresses = map[types.Environment]common.Address{
	types.EnvDevelopment: common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
	types.EnvTest:        common.HexToAddress("0x3C9fE62C4A2c3d5E5B6fD0a1E8F4b7A9D2c10B44"),
	types.EnvProduction:  common.HexToAddress("0x7aB3f9E2D6c4B1a8F0e5C9d2A4b6E8f1C3D5a7B9"),
}

// AccessControl role identifiers, matching the contract's constants.
var (
	DefaultAdminRole = [32]byte{}
	AdminRole        = roleHash("ADMIN_ROLE")
	UpgraderRole     = roleHash("UPGRADER_ROLE")
)

func roleHash(name string) [32]byte {
	return [32]byte(crypto.Keccak256Hash([]byte(name)))
}

func mustParseABI(doc string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(doc))
	if err != nil {
		panic("invalid embedded ABI: " + err.Error())
	}
	return parsed
}
