package scoring

import "testing"

func TestDetectONotation(t *testing.T) {
	cases := []struct {
		name string
		code string
		want string
	}{
		{
			name: "empty string is constant",
			code: "",
			want: O1,
		},
		{
			name: "plain assignment is constant",
			code: "const answer = a + b;",
			want: O1,
		},
		{
			name: "single loop is linear",
			code: "for (let i = 0; i < n; i++) { sum += nums[i]; }",
			want: ON,
		},
		{
			name: "two nested loops are quadratic",
			code: `for (let i = 0; i < n; i++) {
  for (let j = i + 1; j < n; j++) {
    if (nums[i] + nums[j] === target) return [i, j];
  }
}`,
			want: ON2,
		},
		{
			name: "three nested loops are cubic",
			code: `for (let i = 0; i < n; i++) {
  for (let j = 0; j < n; j++) {
    for (let k = 0; k < n; k++) { count++; }
  }
}`,
			want: ON3,
		},
		{
			name: "heavy self recursion is exponential",
			code: `function fib(n) {
  if (n <= 1) return n;
  return fib(n - 1) + fib(n - 2) + fib(n - 3);
}`,
			want: O2N,
		},
		{
			name: "sort call is linearithmic",
			code: "function solve(nums) { nums.sort((a, b) => a - b); return nums[0]; }",
			want: ONLogN,
		},
		{
			name: "binary search keywords are logarithmic",
			code: "function binarySearch(arr, target) { let lo = 0, hi = arr.length; return lo; }",
			want: OLogN,
		},
		{
			name: "function with no other signal defaults to linear",
			code: "function solve(a) { return helper(a) + helper(a); }",
			want: ON,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectONotation(tc.code)
			if got != tc.want {
				t.Errorf("DetectONotation(%q) = %q, want %q", tc.code, got, tc.want)
			}
		})
	}
}
