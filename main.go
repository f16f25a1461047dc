package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/heksemann/hexpdf/doc"
	"github.com/heksemann/hexpdf/dsl"
	canvasdevice "github.com/heksemann/hexpdf/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.hexpdf", "脚本文件路径")
	output := flag.String("out", "output/demo.pdf", "PDF 输出路径")
	dataJSON := flag.String("data", "", "绑定到脚本的 JSON 数据")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(*input, *output, inputData); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

// run 串联解析、排版与输出。
func run(inputPath, outputPath string, data any) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开脚本文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	script, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析脚本失败: %w", err)
	}

	baseDir := filepath.Dir(inputPath)
	dev := canvasdevice.New(baseDir)
	d := doc.New(dev)
	if err := dsl.Run(script, d, data, baseDir); err != nil {
		return fmt.Errorf("执行脚本失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建 PDF 文件失败: %w", err)
	}
	defer out.Close()

	if err := d.Finish(out); err != nil {
		return fmt.Errorf("写出 PDF 失败: %w", err)
	}
	return nil
}
