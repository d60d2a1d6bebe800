// cmd/demo/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Corphon/TubeGenius/internal/app"
	"github.com/Corphon/TubeGenius/internal/config"
	"github.com/Corphon/TubeGenius/internal/di"
	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/services"
	"github.com/Corphon/TubeGenius/internal/utils"
	"github.com/Corphon/TubeGenius/internal/views"
)

var scanner = bufio.NewScanner(os.Stdin)

func main() {
	fmt.Println("🚀 TubeGenius Console")
	fmt.Println("=================================")

	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Printf("❌ 加载配置失败: %v\n", err)
		return
	}

	// 控制台模式只把警告以上的日志写到 stderr
	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "warn", Encoding: "console", OutputPath: "stderr"})
	if err != nil {
		fmt.Printf("⚠️ 无法初始化日志: %v\n", err)
	}

	if err := app.InitServices(cfg, logger); err != nil {
		fmt.Printf("❌ 初始化服务失败: %v\n", err)
		return
	}
	llmService, _ := di.Resolve[*services.LLMService](di.GetContainer(), di.ServiceLLM)
	gateway, _ := di.Resolve[*services.GatewayService](di.GetContainer(), di.ServiceGateway)
	status := llmService.GetProviderStatus()
	if !status.Ready {
		fmt.Printf("⚠️ AI服务未就绪 (%s)，请设置 GEMINI_API_KEY 后重试\n", status.State)
		return
	}
	fmt.Printf("✅ 使用 %s / %s\n", status.Provider, status.DefaultModel)

	shell := views.NewShell(gateway, logger)
	defer shell.Close()

	for {
		fmt.Printf("\n[%s] 1) 脚本分析  2) 选题推荐  3) 脚本生成  0) 退出\n", shell.ActiveView())
		switch input("> ") {
		case "1":
			switchView(shell, models.ViewAnalyzer)
			runAnalyzer(shell)
		case "2":
			switchView(shell, models.ViewIdeas)
			runIdeas(shell)
		case "3":
			switchView(shell, models.ViewGenerator)
			runGenerator(shell)
		case "0", "quit", "exit":
			fmt.Println("👋 再见")
			return
		default:
			fmt.Println("无效的选择")
		}
	}
}

func input(prompt string) string {
	fmt.Print(prompt)
	if !scanner.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(scanner.Text())
}

// inputWithDefault 读取输入，为空时返回默认值
func inputWithDefault(prompt, defaultValue string) string {
	if value := input(fmt.Sprintf("%s [默认: %s]: ", prompt, defaultValue)); value != "" {
		return value
	}
	return defaultValue
}

func switchView(shell *views.Shell, view models.View) {
	if err := shell.SetView(view); err != nil {
		fmt.Printf("❌ %v\n", err)
	}
}

func runAnalyzer(shell *views.Shell) {
	analyzer := shell.Analyzer()
	fmt.Println("粘贴脚本内容，以单独一行 . 结束:")
	var lines []string
	for {
		line := input("")
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	analyzer.SetInput(strings.Join(lines, "\n"))

	fmt.Println("⏳ 分析中...")
	if err := analyzer.Submit(context.Background()); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	snapshot := analyzer.Snapshot()
	if snapshot.Result == nil {
		fmt.Println("⚠️ " + snapshot.Notice)
		return
	}
	result := snapshot.Result
	fmt.Printf("\n📊 점수: %d (%s)  감정: %s\n", result.Score, result.ScoreBand, result.Sentiment)
	fmt.Printf("🎣 훅: %s\n⏱️ 페이싱: %s\n👀 시청 지속: %s\n", result.HookAnalysis, result.Pacing, result.AudienceRetention)
	fmt.Printf("🏷️ 키워드: %s\n", strings.Join(result.Keywords, ", "))
	for i, item := range result.Improvements {
		fmt.Printf("  %d. %s\n", i+1, item)
	}
}

func runIdeas(shell *views.Shell) {
	ideas := shell.Ideas()
	ideas.SetInput(input("领域或频道方向: "))

	fmt.Println("⏳ 生成选题中...")
	if err := ideas.Submit(context.Background()); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	suggestions := ideas.Snapshot().Suggestions
	if len(suggestions) == 0 {
		fmt.Println("没有可用的选题，请换个说法再试")
		return
	}
	for i, topic := range suggestions {
		fmt.Printf("%d) %s  🔥%.1f\n   🖼️ %s\n   💡 %s\n", i+1, topic.Title, topic.ViralityScore, topic.ThumbnailIdea, topic.Reasoning)
	}

	choice := input("选择序号用于生成脚本（回车跳过）: ")
	if choice == "" {
		return
	}
	index, err := strconv.Atoi(choice)
	if err != nil {
		fmt.Println("无效的序号")
		return
	}
	title, err := shell.SelectTopic(index - 1)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("➡️ 已选择: %s\n", title)
	runGenerator(shell)
}

func runGenerator(shell *views.Shell) {
	generator := shell.Generator()
	current := generator.Snapshot().Config

	cfg := models.ScriptConfig{
		Topic:          inputWithDefault("主题", current.Topic),
		Tone:           pickOption("语气", models.ToneOptions, current.Tone),
		Duration:       pickOption("时长", models.DurationOptions, current.Duration),
		TargetAudience: inputWithDefault("目标受众", current.TargetAudience),
	}
	if err := generator.SetConfig(cfg); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	fmt.Println("⏳ 生成脚本中...")
	if err := generator.Submit(context.Background()); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	script, ready := generator.Script()
	if !ready {
		fmt.Println("⚠️ 脚本生成失败，请稍后再试")
		return
	}
	fmt.Println("\n" + script)
}

func pickOption(label string, options []string, current string) string {
	for i, option := range options {
		marker := " "
		if option == current {
			marker = "*"
		}
		fmt.Printf(" %s%d) %s\n", marker, i+1, option)
	}
	choice := input(label + " 序号（回车保持当前）: ")
	index, err := strconv.Atoi(choice)
	if err != nil || index < 1 || index > len(options) {
		return current
	}
	return options[index-1]
}
