// internal/bc125/layout.go
package bc125

// Channel memory layout. The BC125AT has a fixed 500-channel memory
// partitioned into 10 banks of 50 channels each; bank membership is a
// function of the channel index, not stored per channel.
const (
	NumChannels     = 500
	NumBanks        = 10
	ChannelsPerBank = NumChannels / NumBanks
	FirstChannel    = 1
	FirstBank       = 1
)

// ValidChannelIndex reports whether index addresses a channel slot.
func ValidChannelIndex(index int) bool {
	return index >= FirstChannel && index <= NumChannels
}

// ValidBankNumber reports whether bank addresses a channel bank.
func ValidBankNumber(bank int) bool {
	return bank >= FirstBank && bank <= NumBanks
}

// BankOf returns the bank a channel index belongs to. The caller must
// pass a valid channel index.
func BankOf(index int) int {
	return (index-FirstChannel)/ChannelsPerBank + FirstBank
}

// BankRange returns the first and last channel index of a bank. The
// caller must pass a valid bank number.
func BankRange(bank int) (first, last int) {
	first = (bank-FirstBank)*ChannelsPerBank + FirstChannel
	return first, first + ChannelsPerBank - 1
}
