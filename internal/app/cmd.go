package app

// Command 表示应用的启动模式。
type Command string

const (
	// CommandServe 表示以API服务器模式启动。
	CommandServe Command = "serve"
	// CommandMigrate 表示执行 newslog 分区文档的搬运。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck 表示执行健康检查。
	// 供 distroless 环境的 Docker 健康检查使用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand 从命令行参数解析子命令。
// 参数为空或不支持的命令时返回 CommandServe。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
