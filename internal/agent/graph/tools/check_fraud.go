package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/fraudscope/server/internal/detection"
	logx "github.com/fraudscope/server/pkg/logger"
)

// ===================================
// Fraud Check Tools
// ===================================

type CheckEmailInput struct {
	EmailText string `json:"email_text"`
}

type CheckSMSInput struct {
	SMSText string `json:"sms_text"`
}

type CheckURLsInput struct {
	URLs []string `json:"urls"`
}

// CheckResult is the verdict of a single-content fraud check. Degraded is set
// when the collaborator failed and the verdict fell back to not-fraudulent;
// the dispatcher turns it into an audit-log entry.
type CheckResult struct {
	Fraud    bool   `json:"fraud"`
	Degraded string `json:"degraded,omitempty"`
}

// CheckURLsResult is the aggregate verdict over a URL batch: majority vote,
// ties resolved toward not-fraudulent.
type CheckURLsResult struct {
	Fraud      bool   `json:"fraud"`
	FraudCount int    `json:"fraud_count"`
	Total      int    `json:"total"`
	Degraded   string `json:"degraded,omitempty"`
}

func NewCheckEmailTool(classifier detection.Classifier) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCheckEmail,
			Desc: "Check whether an email text appears to be fraudulent. Returns a boolean fraud verdict. Use this tool whenever the user input contains or resembles an email.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"email_text": {
					Type:     "string",
					Desc:     "The full content of the email to analyze.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CheckEmailInput) (*CheckResult, error) {
			if strings.TrimSpace(in.EmailText) == "" {
				return nil, fmt.Errorf("email_text is required")
			}

			fraud, err := classifier.CheckEmail(ctx, in.EmailText)
			if err != nil {
				logx.Warn().Err(err).Str("tool", ToolCheckEmail).Msg("classifier failed; degrading to not-fraudulent")
				return &CheckResult{Fraud: false, Degraded: err.Error()}, nil
			}
			return &CheckResult{Fraud: fraud}, nil
		},
	)
}

func NewCheckSMSTool(classifier detection.Classifier) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCheckSMS,
			Desc: "Check whether an SMS text appears to be fraudulent. Returns a boolean fraud verdict. Use this tool whenever the user input contains or resembles a text message.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"sms_text": {
					Type:     "string",
					Desc:     "The full content of the SMS to analyze.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CheckSMSInput) (*CheckResult, error) {
			if strings.TrimSpace(in.SMSText) == "" {
				return nil, fmt.Errorf("sms_text is required")
			}

			fraud, err := classifier.CheckSMS(ctx, in.SMSText)
			if err != nil {
				logx.Warn().Err(err).Str("tool", ToolCheckSMS).Msg("classifier failed; degrading to not-fraudulent")
				return &CheckResult{Fraud: false, Degraded: err.Error()}, nil
			}
			return &CheckResult{Fraud: fraud}, nil
		},
	)
}

func NewCheckURLsTool(classifier detection.Classifier) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCheckURLs,
			Desc: "Check whether the given URLs appear to be malicious or phishing. Returns an aggregate boolean verdict over all URLs (majority vote). Pass every URL extracted from the user input.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"urls": {
					Type:     "array",
					Desc:     "The URLs to analyze, exactly as they appear in the user input.",
					Required: true,
					ElemInfo: &schema.ParameterInfo{Type: "string"},
				},
			}),
		},
		func(ctx context.Context, in *CheckURLsInput) (*CheckURLsResult, error) {
			if len(in.URLs) == 0 {
				return nil, fmt.Errorf("urls is required")
			}

			var fraudCount int
			var degraded []string
			for _, u := range in.URLs {
				fraud, err := classifier.CheckURL(ctx, u)
				if err != nil {
					// A failed per-URL check counts as not-fraudulent.
					logx.Warn().Err(err).Str("tool", ToolCheckURLs).Str("url", u).Msg("classifier failed for url")
					degraded = append(degraded, fmt.Sprintf("%s: %v", u, err))
					continue
				}
				if fraud {
					fraudCount++
				}
			}

			return &CheckURLsResult{
				Fraud:      fraudCount*2 > len(in.URLs),
				FraudCount: fraudCount,
				Total:      len(in.URLs),
				Degraded:   strings.Join(degraded, "; "),
			}, nil
		},
	)
}
