package main

import (
	"os"

	"github.com/rflgf/mahjong-cli/cmd"
	"github.com/rflgf/mahjong-cli/common/log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error("执行失败: %v", err)
		os.Exit(1)
	}
}
