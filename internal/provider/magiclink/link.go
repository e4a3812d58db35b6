package magiclink

import "regexp"

var approvalLinkPattern = regexp.MustCompile(`https://[^"\s>]+magiclink-verify/phot/approve\?tokenId=[\w\-]+`)

// ExtractApprovalLink 从邮件正文中找出第一个审批链接
func ExtractApprovalLink(text string) (string, bool) {
	link := approvalLinkPattern.FindString(text)
	return link, link != ""
}
