package util

import (
	"fmt"
	"os"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// NormalizeAudioToWAV 把浏览器录制的音频（webm/ogg/mp4 等）转成 16kHz 单声道 WAV。
// 转写接口按 audio/wav 上送，先统一格式再发。
func NormalizeAudioToWAV(inputPath string) ([]byte, error) {
	outPath := inputPath + ".norm.wav"
	defer os.Remove(outPath)

	err := ffmpeg.Input(inputPath).
		Output(outPath, ffmpeg.KwArgs{
			"ar": 16000,
			"ac": 1,
			"f":  "wav",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		return nil, fmt.Errorf("音频转码失败: %w", err)
	}

	return os.ReadFile(outPath)
}
