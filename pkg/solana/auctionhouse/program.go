package auctionhouse

import (
	"crypto/ed25519"
	"errors"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
)

var (
	// PROGRAM_ADDRESS is the mainnet deployment. Marketplaces may point at a
	// different deployment, so every builder and derivation takes the program
	// explicitly.
	PROGRAM_ADDRESS = mustBase58Decode("hausS13jsjafwWwGqZTUQRmWyvyxn9EQpqMwV1PBBmk")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)
