package models

import "time"

// MintRequest asks for an already generated meme to be minted as an NFT.
type MintRequest struct {
	ImageURL      string `json:"imageUrl"`
	Prompt        string `json:"prompt"`
	MemeText      string `json:"memeText,omitempty"`
	UserPublicKey string `json:"userPublicKey"`
	Model         string `json:"model,omitempty"`
	Style         string `json:"style,omitempty"`
}

type MintResponse struct {
	Success     bool      `json:"success"`
	MintAddress string    `json:"mintAddress"`
	MetadataURI string    `json:"metadataUri"`
	ExplorerURL string    `json:"explorerUrl"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
}

// Metadata follows the Metaplex off-chain metadata shape.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	ExternalURL string      `json:"external_url"`
	Properties  Properties  `json:"properties"`
	Collection  Collection  `json:"collection"`
}

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type Properties struct {
	Category string    `json:"category"`
	Creators []Creator `json:"creators"`
	Files    []File    `json:"files"`
}

type Creator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

type File struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

type Collection struct {
	Name   string `json:"name"`
	Family string `json:"family"`
}
