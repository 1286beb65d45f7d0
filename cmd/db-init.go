/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/learnpulse/internal/infrastructure/config"
	"github.com/eslsoft/learnpulse/internal/usecase/archive"
)

// dbInitCmd initializes the database schema for the configured driver
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "初始化数据库结构",
	Long:  "按配置的数据库驱动执行建表语句。注意: go-sqlite3 需要 CGO_ENABLED=1 构建。",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		driver := cfg.DatabaseDriver()
		if driver == "memory" {
			return errors.New("内存存储无需初始化数据库，请配置 postgres 或 sqlite3 驱动")
		}

		service, err := archive.NewService(driver, cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("创建迁移服务失败: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := service.Migrate(ctx); err != nil {
			return fmt.Errorf("执行数据库迁移失败: %w", err)
		}

		log.Println("数据库迁移完成")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
}
