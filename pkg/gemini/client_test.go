package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	// ヘルパー関数: float32のポインタを作成
	ptrFloat := func(f float32) *float32 { return &f }

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "正常系：Gemini API モード (API Key)",
			cfg: Config{
				APIKey: "dummy-key",
			},
			wantErr: nil,
		},
		{
			name: "正常系：Temperatureの設定確認",
			cfg: Config{
				APIKey:      "dummy-key",
				Temperature: ptrFloat(0.5),
			},
			wantErr: nil,
		},
		{
			name:    "異常系：APIKey が空",
			cfg:     Config{},
			wantErr: ErrAPIKeyRequired,
		},
		{
			name: "異常系：Temperatureが範囲外 (2.1)",
			cfg: Config{
				APIKey:      "dummy-key",
				Temperature: ptrFloat(2.1),
			},
			wantErr: ErrInvalidTemperature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(ctx, tt.cfg)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("エラーが返されるべきですが、nilが返されました")
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("期待したエラー: %v, 実際のエラー: %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("予期せぬエラーが発生しました: %v", err)
			}

			if client.backend != genai.BackendGeminiAPI {
				t.Errorf("BackendがGemini APIになっていません: got %v", client.backend)
			}

			// クライアント内部に正しく値がセットされているか確認
			if tt.cfg.Temperature != nil && client.temperature != *tt.cfg.Temperature {
				t.Errorf("Temperatureが一致しません: got %v, want %v", client.temperature, *tt.cfg.Temperature)
			}
			if tt.cfg.Temperature == nil && client.temperature != DefaultTemperature {
				t.Errorf("Temperatureがデフォルト値ではありません: got %v", client.temperature)
			}
		})
	}
}

func TestGenerateContent_Validation(t *testing.T) {
	ctx := context.Background()
	cfg := Config{APIKey: "dummy-key"}
	c, err := NewClient(ctx, cfg)
	if err != nil {
		t.Fatalf("クライアントの初期化に失敗しました: %v", err)
	}

	t.Run("空のプロンプト", func(t *testing.T) {
		_, err := c.GenerateContent(ctx, "gemini-1.5-flash", "")
		if !errors.Is(err, ErrEmptyPrompt) {
			t.Errorf("ErrEmptyPrompt を期待しましたが %v が返りました", err)
		}
	})

	t.Run("パーツが空", func(t *testing.T) {
		_, err := c.GenerateWithParts(ctx, "gemini-1.5-flash", nil, GenerateOptions{})
		if !errors.Is(err, ErrNoParts) {
			t.Errorf("ErrNoParts を期待しましたが %v が返りました", err)
		}
	})

	t.Run("ストリームのパーツが空", func(t *testing.T) {
		var got []error
		for resp, err := range c.GenerateStream(ctx, "gemini-2.5-pro-exp-03-25", nil, GenerateOptions{}) {
			if resp != nil {
				t.Errorf("レスポンスは nil であるべきです: %+v", resp)
			}
			got = append(got, err)
		}
		if len(got) != 1 || !errors.Is(got[0], ErrNoParts) {
			t.Errorf("ErrNoParts が 1 回だけ返されるべきです: %v", got)
		}
	})
}

func TestBuildGenerateConfig(t *testing.T) {
	c := &Client{temperature: DefaultTemperature}

	t.Run("固定の生成パラメータ", func(t *testing.T) {
		got := c.buildGenerateConfig(GenerateOptions{})
		if *got.Temperature != 0.9 || *got.TopK != 1 || *got.TopP != 1 {
			t.Errorf("生成パラメータが一致しません: temp=%v topK=%v topP=%v", *got.Temperature, *got.TopK, *got.TopP)
		}
		if got.MaxOutputTokens != 2048 {
			t.Errorf("MaxOutputTokens = %d, want 2048", got.MaxOutputTokens)
		}
		if got.SystemInstruction != nil {
			t.Errorf("SystemInstruction は nil であるべきです: %+v", got.SystemInstruction)
		}
		if len(got.SafetySettings) != 4 {
			t.Errorf("SafetySettings の件数 = %d, want 4", len(got.SafetySettings))
		}
	})

	t.Run("システムプロンプトの設定", func(t *testing.T) {
		got := c.buildGenerateConfig(GenerateOptions{SystemPrompt: "be brief"})
		if got.SystemInstruction == nil || len(got.SystemInstruction.Parts) != 1 || got.SystemInstruction.Parts[0].Text != "be brief" {
			t.Errorf("SystemInstruction が正しく設定されていません: %+v", got.SystemInstruction)
		}
	})
}
