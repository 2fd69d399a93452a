// Package speech wraps external text-to-speech capabilities behind a small
// Engine contract: stop the current utterance, set the rate for the next one,
// speak some text, and report completion on a subscription channel.
//
// Two families of engines are provided. The system engine drives the
// platform speech command (espeak-ng, espeak, say or the Windows speech
// synthesizer) and treats process exit as completion. The audio engine asks
// an online synthesizer (gTTS, Edge or OpenAI) for MP3 audio, decodes it, and
// plays it through oto; completion is the player draining.
package speech
