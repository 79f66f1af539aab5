// Command wgslgen writes the WGSL side of the mesh host/shader contract.
//
// With no -template it writes the prelude: index constants and every contract struct, for
// shader sources built outside Go. With -template it expands an annotated source for the
// variant a host policy selects at one tier and checks it against the host layouts.
//
//	wgslgen -o prelude.wgsl
//	wgslgen -template mesh.wgsl -policy quality.toml -quality medium -maps base_color,normal
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/config"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/variant"
)

func main() {
	var (
		output   = flag.String("o", "", "output file (default stdout)")
		template = flag.String("template", "", "annotated WGSL to expand; \"mesh\" for the built-in template")
		policy   = flag.String("policy", "", "TOML quality policy, required with -template")
		quality  = flag.String("quality", "high", "quality tier to select the variant at")
		maps     = flag.String("maps", "", "comma-separated maps the material provides (default all)")
		logLevel = flag.String("log", "info", "log level")
	)
	flag.Parse()

	if err := common.SetLogLevel(*logLevel); err != nil {
		common.LogError("bad -log", "err", err)
		os.Exit(2)
	}

	src := shader.PreludeSource()
	if *template != "" {
		var err error
		src, err = expand(*template, *policy, *quality, *maps)
		if err != nil {
			common.LogError("expand failed", "err", err)
			os.Exit(1)
		}
	}

	if *output == "" {
		fmt.Print(src)
		return
	}
	if err := os.WriteFile(*output, []byte(src), 0o644); err != nil {
		common.LogError("write failed", "path", *output, "err", err)
		os.Exit(1)
	}
	common.LogInfo("wrote WGSL", "path", *output, "bytes", len(src))
}

func expand(templatePath, policyPath, qualityName, mapNames string) (string, error) {
	if policyPath == "" {
		return "", fmt.Errorf("-policy is required with -template")
	}
	table, err := config.Load(policyPath)
	if err != nil {
		return "", err
	}
	q, ok := contract.ParseQualityLevel(qualityName)
	if !ok {
		return "", fmt.Errorf("unknown quality %q", qualityName)
	}
	available, err := parseMaps(mapNames)
	if err != nil {
		return "", err
	}

	source := shader.MeshSource
	if templatePath != "mesh" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return "", err
		}
		source = string(data)
	}

	key := variant.Select(table, q, available)
	common.LogDebug("selected variant", "key", key)
	if dropped := available &^ key.Flags; dropped != 0 {
		common.LogWarn("quality policy disables available maps", "quality", q, "dropped", dropped)
	}

	vs, err := shader.NewShader(templatePath, shader.ShaderTypeVertex, source, shader.WithFlags(key.Flags))
	if err != nil {
		return "", err
	}
	if err := shader.CheckInterface(vs); err != nil {
		return "", err
	}
	return vs.Source(), nil
}

func parseMaps(names string) (contract.FunctionConstantSet, error) {
	if names == "" {
		return contract.AllFunctionConstants, nil
	}
	var set contract.FunctionConstantSet
	for _, name := range strings.Split(names, ",") {
		c, ok := contract.ParseFunctionConstant(strings.TrimSpace(name))
		if !ok {
			return 0, fmt.Errorf("unknown map %q", name)
		}
		set = set.With(c)
	}
	return set, nil
}
