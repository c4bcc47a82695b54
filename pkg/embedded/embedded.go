// Package embedded 提供嵌入数据文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的 data/ 目录。
//
// 未调用 Init() 时（命令行工具、单元测试），所有读取回退到本地文件系统，
// 此时路径可以是任意相对或绝对路径。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置嵌入的数据文件系统
// 桌面程序在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// Reset 清除嵌入文件系统，恢复本地文件系统回退模式
func Reset() {
	dataFS = nil
	initialized = false
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符并移除 "./" 前缀（embed.FS 使用正斜杠）
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// ReadFile 读取数据文件内容
//
// 已初始化时路径必须以 "data/" 开头并从嵌入文件系统读取；
// 未初始化时直接读取本地文件。
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return os.ReadFile(path)
	}

	path = normalize(path)
	if !strings.HasPrefix(path, "data/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查数据文件是否存在
func Exists(path string) bool {
	if !initialized {
		_, err := os.Stat(path)
		return err == nil
	}
	_, err := fs.Stat(dataFS, normalize(path))
	return err == nil
}

// Glob 匹配数据文件
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return filepath.Glob(pattern)
	}
	return fs.Glob(dataFS, normalize(pattern))
}
