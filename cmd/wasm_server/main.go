package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pkg/browser"
	"github.com/spf13/pflag"
)

func main() {
	addr := pflag.String("addr", "localhost:8080", "address to serve on")
	wasmDir := pflag.String("dir", "web", "output and document root directory")
	openBrowser := pflag.Bool("open", true, "open the game in the default browser")
	pflag.Parse()

	if err := os.MkdirAll(*wasmDir, 0755); err != nil {
		log.Fatal("Failed to create web directory:", err)
	}

	fmt.Println("Building WASM version...")
	if err := buildWASM(*wasmDir); err != nil {
		log.Fatal("Failed to build WASM:", err)
	}

	fmt.Println("Copying required files...")
	if err := copyWASMExec(*wasmDir); err != nil {
		log.Fatal("Failed to copy files:", err)
	}

	if err := createHTMLFile(*wasmDir); err != nil {
		log.Fatal("Failed to create HTML file:", err)
	}

	files := http.FileServer(http.Dir(*wasmDir))
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")

		if filepath.Ext(r.URL.Path) == ".wasm" {
			w.Header().Set("Content-Type", "application/wasm")
		}
		files.ServeHTTP(w, r)
	})

	url := "http://" + *addr
	fmt.Printf("Boat race server starting on %s, serving %s/\n", url, *wasmDir)

	if *openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Printf("Could not open a browser: %v\n", err)
		}
	}

	log.Fatal(http.ListenAndServe(*addr, nil))
}

func buildWASM(dir string) error {
	cmd := exec.Command("go", "build", "-o", filepath.Join(dir, "boatrace.wasm"), "./cmd/boatrace")
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func copyWASMExec(dir string) error {
	src := filepath.Join(runtime.GOROOT(), "lib", "wasm", "wasm_exec.js")
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read wasm_exec.js: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "wasm_exec.js"), data, 0644); err != nil {
		return fmt.Errorf("failed to copy wasm_exec.js: %w", err)
	}
	return nil
}

// createHTMLFile writes a minimal page unless one already exists.
func createHTMLFile(dir string) error {
	htmlPath := filepath.Join(dir, "index.html")
	if _, err := os.Stat(htmlPath); err == nil {
		fmt.Println("index.html already exists, keeping existing version")
		return nil
	}

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Boat Race</title>
    <style>
        body { margin: 0; background: #003366; color: white; font-family: sans-serif; }
        #loading { text-align: center; padding: 40px; color: #66ccff; }
        #error { display: none; color: #ff6666; padding: 20px; }
    </style>
</head>
<body>
    <div id="loading">Loading boat race...</div>
    <div id="error"></div>
    <script src="wasm_exec.js"></script>
    <script>
        const go = new Go();
        WebAssembly.instantiateStreaming(fetch("boatrace.wasm"), go.importObject)
            .then((result) => {
                document.getElementById('loading').style.display = 'none';
                go.run(result.instance);
            })
            .catch((err) => {
                console.error('Failed to load WASM:', err);
                document.getElementById('loading').style.display = 'none';
                const e = document.getElementById('error');
                e.style.display = 'block';
                e.textContent = err.toString();
            });
    </script>
</body>
</html>`

	return os.WriteFile(htmlPath, []byte(html), 0644)
}
