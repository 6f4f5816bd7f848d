package audio

// Provider is the read-only view of the audio unit used by frontends that
// visualise or synthesise sound from the channel parameters.
type Provider interface {
	Channels() [4]ChannelInfo
	WaveRAM() [waveRAMSize]uint8
	Status() uint8
}

var _ Provider = (*APU)(nil)
