package entity

// ConnectionStatus is the lifecycle state of the wallet connection.
type ConnectionStatus string

const (
	ConnectionStatusIdle       ConnectionStatus = "idle"
	ConnectionStatusConnecting ConnectionStatus = "connecting"
	ConnectionStatusConnected  ConnectionStatus = "connected"
)

// WalletKind identifies a wallet adapter variant.
type WalletKind string

const (
	// WalletKindKeplr is the extension-backed wallet, reached through a local signer agent.
	WalletKindKeplr WalletKind = "keplr"
	// WalletKindWalletConnect is the remote-pairing wallet.
	WalletKindWalletConnect WalletKind = "walletconnect"
)

// AutoReconnectable reports whether a persisted preference for this kind may be
// used to reconnect silently. Remote pairing always needs the user to approve
// a fresh session.
func (k WalletKind) AutoReconnectable() bool {
	return k == WalletKindKeplr
}

// Valid reports whether k names a known wallet kind.
func (k WalletKind) Valid() bool {
	switch k {
	case WalletKindKeplr, WalletKindWalletConnect:
		return true
	default:
		return false
	}
}

// Account is a signer account exposed by a wallet.
type Account struct {
	Address string `json:"address"`
	Algo    string `json:"algo"`
	PubKey  []byte `json:"pubkey"`
}

// AccountRecord is the chain's view of an account.
type AccountRecord struct {
	Type          string `json:"type"`
	Address       string `json:"address"`
	AccountNumber uint64 `json:"accountNumber"`
	Sequence      uint64 `json:"sequence"`
}

// Bech32Config holds the address prefixes of a chain.
type Bech32Config struct {
	AccAddr  string `json:"bech32PrefixAccAddr" yaml:"accAddr"`
	AccPub   string `json:"bech32PrefixAccPub" yaml:"accPub"`
	ValAddr  string `json:"bech32PrefixValAddr" yaml:"valAddr"`
	ValPub   string `json:"bech32PrefixValPub" yaml:"valPub"`
	ConsAddr string `json:"bech32PrefixConsAddr" yaml:"consAddr"`
	ConsPub  string `json:"bech32PrefixConsPub" yaml:"consPub"`
}

// Currency describes the staking coin of a chain.
type Currency struct {
	CoinDenom        string `json:"coinDenom" yaml:"coinDenom"`
	CoinMinimalDenom string `json:"coinMinimalDenom" yaml:"coinMinimalDenom"`
	CoinDecimals     int32  `json:"coinDecimals" yaml:"coinDecimals"`
}

// ChainInfo is handed to wallet adapters during the connect handshake.
type ChainInfo struct {
	ChainID      string       `json:"chainId" yaml:"chainId"`
	ChainName    string       `json:"chainName" yaml:"chainName"`
	RPC          string       `json:"rpc" yaml:"rpc"`
	REST         string       `json:"rest" yaml:"rest"`
	Bech32Config Bech32Config `json:"bech32Config" yaml:"bech32Config"`
	Currency     Currency     `json:"currency" yaml:"currency"`
	GasPrice     string       `json:"gasPrice" yaml:"gasPrice"`
}
