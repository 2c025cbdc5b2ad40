package cli

import "fmt"

type xtreeBanner struct{}

func (xtreeBanner) JSON() string {
	return fmt.Sprintf(`{"app":"xtree","version":%q}`, Version)
}

func (xtreeBanner) PlainText() string {
	return `
██╗  ██╗████████╗██████╗ ███████╗███████╗
╚██╗██╔╝╚══██╔══╝██╔══██╗██╔════╝██╔════╝
 ╚███╔╝    ██║   ██████╔╝█████╗  █████╗
 ██╔██╗    ██║   ██╔══██╗██╔══╝  ██╔══╝
██╔╝ ██╗   ██║   ██║  ██║███████╗███████╗
╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝╚══════╝
` + Version
}
