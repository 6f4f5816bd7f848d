package debug

import (
	"math"
	"strconv"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/audio"
)

type ChannelStatus struct {
	audio.ChannelInfo
	Note string
}

type AudioData struct {
	APUEnabled   bool
	MasterVolume struct {
		Left  uint8
		Right uint8
	}
	Channels           [4]ChannelStatus
	WaveRAM            [16]uint8
	FrameSequencerStep uint8
}

// sequencerProvider is implemented by APUs that expose their frame
// sequencer position.
type sequencerProvider interface {
	FrameSequencerStep() uint8
}

// ExtractAudioData reads the master controls through reader and the channel
// parameters through provider. A nil provider leaves the channels zeroed.
func ExtractAudioData(reader MemoryReader, provider audio.Provider) *AudioData {
	data := &AudioData{}

	nr52 := reader.Read(addr.NR52)
	data.APUEnabled = (nr52 & 0x80) != 0

	nr50 := reader.Read(addr.NR50)
	data.MasterVolume.Left = (nr50 >> 4) & 0x07
	data.MasterVolume.Right = nr50 & 0x07

	if provider == nil {
		return data
	}

	for i, info := range provider.Channels() {
		ch := ChannelStatus{ChannelInfo: info}
		if i == 3 {
			ch.Note = "Noise"
		} else {
			ch.Note = frequencyToNote(info.Frequency)
		}
		data.Channels[i] = ch
	}
	data.WaveRAM = provider.WaveRAM()
	if seq, ok := provider.(sequencerProvider); ok {
		data.FrameSequencerStep = seq.FrameSequencerStep()
	}
	return data
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// frequencyToNote names the equal-tempered note closest to freq, A4 = 440 Hz.
func frequencyToNote(freq float64) string {
	if freq < 20 || freq > 20000 {
		return "--"
	}

	midi := int(math.Round(12*math.Log2(freq/440) + 69))
	octave := midi/12 - 1
	if octave < 0 || octave > 9 {
		return "--"
	}
	return noteNames[midi%12] + strconv.Itoa(octave)
}
