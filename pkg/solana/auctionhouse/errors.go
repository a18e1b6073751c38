package auctionhouse

import "strconv"

// AuctionHouseError is a custom error code returned by the program.
type AuctionHouseError uint32

const (
	// PublicKey mismatch
	ErrPublicKeyMismatch AuctionHouseError = iota + 0x1770

	// Invalid mint authority
	ErrInvalidMintAuthority

	// Account not initialized
	ErrUninitializedAccount

	// Incorrect account owner
	ErrIncorrectOwner

	// Public keys should be unique
	ErrPublicKeysShouldBeUnique

	// Statement false
	ErrStatementFalse

	// Not rent exempt
	ErrNotRentExempt

	// Numerical overflow
	ErrNumericalOverflow

	// Expected a sol account but got an spl token account instead
	ErrExpectedSolAccount

	// Cannot exchange sol for sol
	ErrCannotExchangeSOLForSol

	// If paying with sol, sol wallet must be signer
	ErrSOLWalletMustSign

	// Cannot take this action without auction house signing too
	ErrCannotTakeThisActionWithoutAuctionHouseSignOff

	// No payer present on this txn
	ErrNoPayerPresent

	// Derived key invalid
	ErrDerivedKeyInvalid

	// Metadata doesn't exist
	ErrMetadataDoesntExist

	// Invalid token amount
	ErrInvalidTokenAmount

	// Both parties need to agree to this sale
	ErrBothPartiesNeedToAgreeToSale

	// Cannot match free sales unless the auction house or seller signs off
	ErrCannotMatchFreeSalesWithoutAuctionHouseOrSellerSignoff

	// This sale requires a signer
	ErrSaleRequiresSigner

	// Old seller not initialized
	ErrOldSellerNotInitialized

	// Seller ata cannot have a delegate set
	ErrSellerATACannotHaveDelegate

	// Buyer ata cannot have a delegate set
	ErrBuyerATACannotHaveDelegate

	// No valid signer present
	ErrNoValidSignerPresent

	// BP must be less than or equal to 10000
	ErrInvalidBasisPoints

	// Auction has not started
	ErrAuctionNotStarted

	// Auction has ended
	ErrAuctionEnded

	// Auction has not ended
	ErrAuctionNotEnded

	// Bid is below the minimum increment
	ErrBidTooLow

	// Auction already settled
	ErrAuctionAlreadySettled

	// Auction has no buy now price
	ErrBuyNowNotAvailable

	// Start time is in the past
	ErrInvalidStartTime

	// Auction has no bids
	ErrAuctionHasNoBids
)

// errorNames is indexed by code offset from ErrPublicKeyMismatch.
var errorNames = []string{
	"PublicKeyMismatch",
	"InvalidMintAuthority",
	"UninitializedAccount",
	"IncorrectOwner",
	"PublicKeysShouldBeUnique",
	"StatementFalse",
	"NotRentExempt",
	"NumericalOverflow",
	"ExpectedSolAccount",
	"CannotExchangeSOLForSol",
	"SOLWalletMustSign",
	"CannotTakeThisActionWithoutAuctionHouseSignOff",
	"NoPayerPresent",
	"DerivedKeyInvalid",
	"MetadataDoesntExist",
	"InvalidTokenAmount",
	"BothPartiesNeedToAgreeToSale",
	"CannotMatchFreeSalesWithoutAuctionHouseOrSellerSignoff",
	"SaleRequiresSigner",
	"OldSellerNotInitialized",
	"SellerATACannotHaveDelegate",
	"BuyerATACannotHaveDelegate",
	"NoValidSignerPresent",
	"InvalidBasisPoints",
	"AuctionNotStarted",
	"AuctionEnded",
	"AuctionNotEnded",
	"BidTooLow",
	"AuctionAlreadySettled",
	"BuyNowNotAvailable",
	"InvalidStartTime",
	"AuctionHasNoBids",
}

func (e AuctionHouseError) Error() string {
	if e.isKnown() {
		return errorNames[e-ErrPublicKeyMismatch]
	}
	return "unknown auction house error " + strconv.FormatUint(uint64(e), 10)
}

func (e AuctionHouseError) isKnown() bool {
	return e >= ErrPublicKeyMismatch && int(e-ErrPublicKeyMismatch) < len(errorNames)
}

// ErrorFromCode returns the program error for a custom instruction error
// code, if the code belongs to this program.
func ErrorFromCode(code int) (AuctionHouseError, bool) {
	if code < 0 {
		return 0, false
	}
	e := AuctionHouseError(code)
	return e, e.isKnown()
}
